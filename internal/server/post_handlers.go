package server

import (
	"strconv"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/index", fiber.Map{"Page": page})
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.postService.GroupPosts(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/group_list", fiber.Map{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

// Profile handles GET /profile/:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	view, err := s.postService.Profile(c.UserContext(), c.Params("username"), c.Query("page"), viewerID(c))
	if err != nil {
		return err
	}
	return s.render(c, "posts/profile", fiber.Map{
		"Title":     "Profile of " + view.Author.FullName(),
		"Author":    view.Author,
		"Page":      view.Page,
		"PostCount": view.PostCount,
		"Following": view.Following,
	})
}

// PostDetail handles GET /posts/:id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := s.postService.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, "posts/post_detail", fiber.Map{
		"Title":     detail.Title,
		"Post":      detail.Post,
		"PostCount": detail.AuthorPostCount,
		"Comments":  detail.Comments,
		"Form":      &forms.CommentForm{},
	})
}

// FollowIndex handles GET /follow/
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.UserContext(), currentUser(c).ID, c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/follow", fiber.Map{"Page": page})
}

// CreatePostForm handles GET /create/
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, &forms.PostForm{}, nil)
}

// CreatePost handles POST /create/
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user := currentUser(c)

	form, err := s.bindPostForm(c)
	if err != nil {
		return err
	}
	if !form.Validate(s.maxImageBytes()) {
		return s.renderPostForm(c, form, nil)
	}

	_, err = s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: user.ID,
		Text:     form.Text,
		GroupID:  form.GroupID,
		Image:    form.Image,
	})
	if fieldErrs, ok := forms.AsErrors(err); ok {
		mergeErrors(form.Errors, fieldErrs)
		return s.renderPostForm(c, form, nil)
	}
	if err != nil {
		return err
	}

	return redirect(c, profileURL(user.Username))
}

// EditPostForm handles GET /posts/:id/edit/
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}

	form := &forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return s.renderPostForm(c, form, post)
}

// EditPost handles POST /posts/:id/edit/
func (s *Server) EditPost(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}

	form, err := s.bindPostForm(c)
	if err != nil {
		return err
	}
	if !form.Validate(s.maxImageBytes()) {
		return s.renderPostForm(c, form, post)
	}

	_, err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:     currentUser(c).ID,
		PostID:     post.ID,
		Text:       form.Text,
		GroupID:    form.GroupID,
		Image:      form.Image,
		ClearImage: form.ClearImage,
	})
	if fieldErrs, ok := forms.AsErrors(err); ok {
		mergeErrors(form.Errors, fieldErrs)
		return s.renderPostForm(c, form, post)
	}
	if models.ErrorCode(err) == models.CodeForbidden {
		return redirect(c, postURL(post.ID))
	}
	if err != nil {
		return err
	}

	return redirect(c, postURL(post.ID))
}

// editablePost loads the post being edited. For anyone but the author it sends a
// redirect to the post and returns a nil post.
func (s *Server) editablePost(c *fiber.Ctx) (*models.Post, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != currentUser(c).ID {
		return nil, redirect(c, postURL(post.ID))
	}
	return post, nil
}

func (s *Server) bindPostForm(c *fiber.Ctx) (*forms.PostForm, error) {
	form := &forms.PostForm{}
	if err := c.BodyParser(form); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	// No file part means the image is left as it is.
	if fh, err := c.FormFile("image"); err == nil {
		form.ImageFile = fh
	}
	return form, nil
}

func (s *Server) renderPostForm(c *fiber.Ctx, form *forms.PostForm, post *models.Post) error {
	groups, err := s.postService.ListGroups(c.UserContext())
	if err != nil {
		return err
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	return s.render(c, "posts/create_post", fiber.Map{
		"Title":  title,
		"Form":   form,
		"Groups": groups,
		"IsEdit": post != nil,
		"Post":   post,
	})
}

func (s *Server) maxImageBytes() int64 {
	return int64(s.config.ImageMaxUploadSizeMB) * 1024 * 1024
}

func mergeErrors(dst, src forms.Errors) {
	for field, msgs := range src {
		for _, msg := range msgs {
			dst.Add(field, msg)
		}
	}
}
