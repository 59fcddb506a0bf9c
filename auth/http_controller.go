package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// AuthController serves the token endpoints and the user resource.
// User CRUD is privileged-only: regular accounts interact with the
// system through pages and posts, not account administration.
type AuthController struct {
	repo     RepositoryManager
	auther   *Authenticator
	register *RegisterUserHandler
	logger   Logger
}

func NewAuthController(repo RepositoryManager, auther *Authenticator) *AuthController {
	return &AuthController{
		repo:     repo,
		auther:   auther,
		register: NewRegisterUserHandler(repo),
		logger:   defLogger{},
	}
}

func (ctrl *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		ctrl.logger = logger
	}
	return ctrl
}

// RegisterRoutes mounts the public token endpoints and the gated user
// resource. The gate handler is the Middleware of the controller's
// Authenticator; it is passed in so the caller controls ordering.
func (ctrl *AuthController) RegisterRoutes(app fiber.Router, gate fiber.Handler) {
	app.Post("/login", ctrl.Login)
	app.Post("/refresh", ctrl.Refresh)

	users := app.Group("/users", gate, RequirePrivileged())
	users.Get("/", ctrl.ListUsers)
	users.Post("/", ctrl.CreateUser)
	users.Get("/:id", ctrl.RetrieveUser)
	users.Put("/:id", ctrl.UpdateUser)
	users.Delete("/:id", ctrl.DeleteUser)
	users.Post("/:id/block-user", ctrl.BlockUser)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return AsValidationError(err)
	}

	pair, err := ctrl.auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(pair)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return AsValidationError(err)
	}

	pair, err := ctrl.auther.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(pair)
}

func (ctrl *AuthController) ListUsers(c *fiber.Ctx) error {
	records, err := ctrl.repo.Users().List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(records)
}

func (ctrl *AuthController) RetrieveUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	return c.JSON(record)
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Password2, validation.Required, validation.By(func(any) error {
			if r.Password2 != r.Password {
				return errors.New("password fields didn't match", errors.CategoryValidation)
			}
			return nil
		})),
	)
}

func (ctrl *AuthController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return AsValidationError(err)
	}

	user, err := ctrl.register.Execute(c.UserContext(), RegisterUserMessage{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Title:     req.Title,
		Phone:     req.Phone,
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type UpdateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (ctrl *AuthController) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrMalformedBody(err)
	}

	if err := req.Validate(); err != nil {
		return AsValidationError(err)
	}

	record, err := ctrl.repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	record.Username = req.Username
	record.Email = req.Email
	record.FirstName = req.FirstName
	record.LastName = req.LastName
	record.Title = req.Title

	record, err = ctrl.repo.Users().Update(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

func (ctrl *AuthController) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.Users().DeleteByID(c.UserContext(), id); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (ctrl *AuthController) BlockUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Users().Block(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	ctrl.logger.Info("User blocked", "user_id", record.ID)

	return c.JSON(record)
}

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid user id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
