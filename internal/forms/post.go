package forms

import (
	"mime/multipart"
	"strconv"
	"strings"
)

// PostForm is the create and edit form for a post.
type PostForm struct {
	Text       string `form:"text" validate:"required"`
	Group      string `form:"group"`
	ClearImage bool   `form:"image-clear"`

	ImageFile *multipart.FileHeader `form:"-"`

	// Set by Validate.
	GroupID *uint   `form:"-"`
	Image   *Upload `form:"-"`
	Errors  Errors  `form:"-"`
}

// Validate normalizes the input and fills Errors. maxImageBytes bounds uploads.
func (f *PostForm) Validate(maxImageBytes int64) bool {
	f.Errors = Errors{}
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)

	check(f, f.Errors)

	f.GroupID = nil
	if f.Group != "" {
		id, err := strconv.ParseUint(f.Group, 10, 64)
		if err != nil || id == 0 {
			f.Errors.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			gid := uint(id)
			f.GroupID = &gid
		}
	}

	f.Image = nil
	if f.ImageFile != nil {
		upload, err := ValidateImage(f.ImageFile, maxImageBytes)
		if err != nil {
			f.Errors.Add("image", capitalize(err.Error()))
		} else {
			f.Image = upload
		}
	}

	return !f.Errors.Any()
}

// SelectedGroup reports whether id is the chosen group, for rendering the select box.
func (f *PostForm) SelectedGroup(id uint) bool {
	return f.Group == strconv.FormatUint(uint64(id), 10)
}

// CommentForm is the inline comment form on the post detail page.
type CommentForm struct {
	Text   string `form:"text" validate:"required"`
	Errors Errors `form:"-"`
}

func (f *CommentForm) Validate() bool {
	f.Errors = Errors{}
	f.Text = strings.TrimSpace(f.Text)
	check(f, f.Errors)
	return !f.Errors.Any()
}
