package types

// CourseClass is one course of the dinner (e.g. starter, main course, dessert).
//
// Identity is the label: two course classes with the same label are equal and
// may be used interchangeably as map keys.
type CourseClass struct {
	Label string
}

// Standard course classes used when no courses are configured.
var (
	Starter    = CourseClass{Label: "Starter"}
	MainCourse = CourseClass{Label: "Main Course"}
	Dessert    = CourseClass{Label: "Dessert"}
)

// StandardCourses returns the default three-course menu.
func StandardCourses() []CourseClass {
	return []CourseClass{Starter, MainCourse, Dessert}
}

// IsZero reports whether the course class is unset.
func (c CourseClass) IsZero() bool {
	return c.Label == ""
}

// String returns the label of the course.
func (c CourseClass) String() string {
	return c.Label
}

// MarshalText encodes the course as its label.
func (c CourseClass) MarshalText() ([]byte, error) {
	return []byte(c.Label), nil
}

// UnmarshalText decodes a course from its label.
func (c *CourseClass) UnmarshalText(text []byte) error {
	c.Label = string(text)
	return nil
}
