package content

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/innotter/auth"
	"github.com/google/uuid"
)

// ContentController serves pages, posts, and tags. Reads are open to
// any authenticated caller; mutations require the resource owner or a
// privileged role, and tag deletion is privileged only.
type ContentController struct {
	repo   RepositoryManager
	follow *FollowStateMachine
	logger auth.Logger
}

func NewContentController(repo RepositoryManager) *ContentController {
	return &ContentController{
		repo:   repo,
		follow: NewFollowStateMachine(repo),
		logger: auth.NewNopLogger(),
	}
}

func (ctrl *ContentController) WithLogger(logger auth.Logger) *ContentController {
	if logger != nil {
		ctrl.logger = logger
		ctrl.follow.WithLogger(logger)
	}
	return ctrl
}

// FollowStateMachine exposes the state machine for callers that drive
// transitions outside HTTP.
func (ctrl *ContentController) FollowStateMachine() *FollowStateMachine {
	return ctrl.follow
}

// RegisterRoutes mounts every content route behind the gate.
func (ctrl *ContentController) RegisterRoutes(app fiber.Router, gate fiber.Handler) {
	pages := app.Group("/pages", gate)
	pages.Get("/", ctrl.ListPages)
	pages.Post("/", ctrl.CreatePage)
	pages.Get("/:id", ctrl.RetrievePage)
	pages.Put("/:id", ctrl.UpdatePage)
	pages.Delete("/:id", ctrl.DeletePage)
	pages.Post("/:id/follow", ctrl.FollowPage)
	pages.Post("/:id/accept-follow", ctrl.AcceptFollow)
	pages.Post("/:id/make-private", ctrl.MakePagePrivate)

	posts := app.Group("/posts", gate)
	posts.Get("/", ctrl.ListPosts)
	posts.Get("/followed-pages-posts", ctrl.ListFollowedPagesPosts)
	posts.Post("/", ctrl.CreatePost)
	posts.Get("/:id", ctrl.RetrievePost)
	posts.Put("/:id", ctrl.UpdatePost)
	posts.Delete("/:id", ctrl.DeletePost)

	tags := app.Group("/tags", gate)
	tags.Get("/", ctrl.ListTags)
	tags.Post("/", ctrl.CreateTag)
	tags.Get("/:id", ctrl.RetrieveTag)
	tags.Put("/:id", ctrl.UpdateTag)
	tags.Delete("/:id", auth.RequirePrivileged(), ctrl.DeleteTag)
}

// ---- pages

func (ctrl *ContentController) ListPages(c *fiber.Ctx) error {
	pages, err := ctrl.repo.Pages().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(pages)
}

type CreatePageRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	TagIDs      []int64 `json:"tag_ids"`
}

func (r CreatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Image, is.URL),
	)
}

func (ctrl *ContentController) CreatePage(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	var req CreatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	ownerID, err := uuid.Parse(identity.ID())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "malformed identity id")
	}

	tags, err := ctrl.repo.Tags().GetByIDs(c.UserContext(), req.TagIDs)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().Create(c.UserContext(), &Page{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		OwnerID:     ownerID,
		Tags:        tags,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

func (ctrl *ContentController) RetrievePage(c *fiber.Ctx) error {
	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().GetByIDWithRelations(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

type UpdatePageRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	TagIDs      []int64 `json:"tag_ids"`
}

func (r UpdatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Image, is.URL),
	)
}

func (ctrl *ContentController) UpdatePage(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, page.OwnerID.String()) {
		return auth.ErrForbidden
	}

	var req UpdatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	tags, err := ctrl.repo.Tags().GetByIDs(c.UserContext(), req.TagIDs)
	if err != nil {
		return err
	}

	page.Name = req.Name
	page.Description = req.Description
	page.Image = req.Image
	page.Tags = tags

	page, err = ctrl.repo.Pages().Update(c.UserContext(), page)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

func (ctrl *ContentController) DeletePage(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, page.OwnerID.String()) {
		return auth.ErrForbidden
	}

	if err := ctrl.repo.Pages().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (ctrl *ContentController) FollowPage(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(identity.ID())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "malformed identity id")
	}

	if err := ctrl.follow.RequestFollow(c.UserContext(), id, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

type AcceptFollowRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

func (r AcceptFollowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserIDs, validation.Required),
	)
}

func (ctrl *ContentController) AcceptFollow(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	var req AcceptFollowRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	accepted, err := ctrl.follow.AcceptFollow(c.UserContext(), id, identity, req.UserIDs)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"accepted": accepted})
}

func (ctrl *ContentController) MakePagePrivate(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePageID(c)
	if err != nil {
		return err
	}

	page, err := ctrl.follow.MakePrivate(c.UserContext(), id, identity)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

// ---- posts

func (ctrl *ContentController) ListPosts(c *fiber.Ctx) error {
	posts, err := ctrl.repo.Posts().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// ListFollowedPagesPosts is the feed: posts of every page the caller
// follows.
func (ctrl *ContentController) ListFollowedPagesPosts(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	userID, err := uuid.Parse(identity.ID())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "malformed identity id")
	}

	pageIDs, err := ctrl.repo.Pages().ListFollowedPageIDs(c.UserContext(), userID)
	if err != nil {
		return err
	}

	posts, err := ctrl.repo.Posts().ListByPageIDs(c.UserContext(), pageIDs)
	if err != nil {
		return err
	}

	return c.JSON(posts)
}

type CreatePostRequest struct {
	PageID  uuid.UUID `json:"page_id"`
	Content string    `json:"content"`
	ReplyTo *int64    `json:"reply_to_id"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, MaxPostContentLength)),
	)
}

func (ctrl *ContentController) CreatePost(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	page, err := ctrl.repo.Pages().GetByID(c.UserContext(), req.PageID)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, page.OwnerID.String()) {
		return auth.ErrForbidden
	}

	if req.ReplyTo != nil {
		if _, err := ctrl.repo.Posts().GetByID(c.UserContext(), *req.ReplyTo); err != nil {
			return err
		}
	}

	post, err := ctrl.repo.Posts().Create(c.UserContext(), &Post{
		PageID:    page.ID,
		Content:   req.Content,
		ReplyToID: req.ReplyTo,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (ctrl *ContentController) RetrievePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := ctrl.repo.Posts().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(post)
}

type UpdatePostRequest struct {
	Content string `json:"content"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, MaxPostContentLength)),
	)
}

func (ctrl *ContentController) UpdatePost(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := ctrl.repo.Posts().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().GetByID(c.UserContext(), post.PageID)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, page.OwnerID.String()) {
		return auth.ErrForbidden
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	post.Content = req.Content

	post, err = ctrl.repo.Posts().Update(c.UserContext(), post)
	if err != nil {
		return err
	}

	return c.JSON(post)
}

func (ctrl *ContentController) DeletePost(c *fiber.Ctx) error {
	identity := auth.MustIdentity(c)

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := ctrl.repo.Posts().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	page, err := ctrl.repo.Pages().GetByID(c.UserContext(), post.PageID)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, page.OwnerID.String()) {
		return auth.ErrForbidden
	}

	if err := ctrl.repo.Posts().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ---- tags

func (ctrl *ContentController) ListTags(c *fiber.Ctx) error {
	tags, err := ctrl.repo.Tags().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tags)
}

type TagRequest struct {
	Name string `json:"name"`
}

func (r TagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxTagNameLength)),
	)
}

func (ctrl *ContentController) CreateTag(c *fiber.Ctx) error {
	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	tag, err := ctrl.repo.Tags().Create(c.UserContext(), &Tag{Name: req.Name})
	if err != nil {
		return errors.Wrap(err, errors.CategoryConflict, "could not create tag").
			WithCode(errors.CodeConflict)
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

func (ctrl *ContentController) RetrieveTag(c *fiber.Ctx) error {
	id, err := parseTagID(c)
	if err != nil {
		return err
	}

	tag, err := ctrl.repo.Tags().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(tag)
}

func (ctrl *ContentController) UpdateTag(c *fiber.Ctx) error {
	id, err := parseTagID(c)
	if err != nil {
		return err
	}

	tag, err := ctrl.repo.Tags().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return auth.AsValidationError(err)
	}

	tag.Name = req.Name

	tag, err = ctrl.repo.Tags().Update(c.UserContext(), tag)
	if err != nil {
		return err
	}

	return c.JSON(tag)
}

func (ctrl *ContentController) DeleteTag(c *fiber.Ctx) error {
	id, err := parseTagID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.Tags().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ---- param parsing

func parsePageID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid page id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}

func parsePostID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid post id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}

func parseTagID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid tag id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
