package entity

// Screenshot is an encoded image of a page element.
type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
