package api

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/project"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer    mono.ServiceContainer
	taskContainer    mono.ServiceContainer
	projectContainer mono.ServiceContainer
	authAdapter      auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer, projectContainer mono.ServiceContainer, authAdapter auth.AuthPort) *Handlers {
	return &Handlers{
		authContainer:    authContainer,
		taskContainer:    taskContainer,
		projectContainer: projectContainer,
		authAdapter:      authAdapter,
	}
}

// claims extracts the authenticated identity stored by AuthMiddleware.
func claims(c *fiber.Ctx) (*user.Claims, bool) {
	cl, ok := c.Locals(UserContextKey).(*user.Claims)
	return cl, ok
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username, email and password are required",
		})
	}

	authReq := auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		Role:      resp.Role,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Email and password are required",
		})
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
		Role:         resp.Role,
		Username:     resp.Username,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Refresh token is required",
		})
	}

	authReq := auth.RefreshRequest{
		RefreshToken: req.RefreshToken,
	}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Profile returns the current user's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	u, err := h.authAdapter.GetUser(c.UserContext(), cl.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve user profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	})
}

// ListTasks returns the caller's visible tasks narrowed by the optional
// priority, status and project_id query filters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	taskReq := task.ListTasksRequest{
		PrincipalParams: principalParams(cl),
		Priority:        c.Query("priority"),
		Status:          c.Query("status"),
		ProjectID:       c.Query("project_id"),
	}
	var resp task.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskListResponse(resp))
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	taskReq := task.CreateTaskRequest{
		PrincipalParams: principalParams(cl),
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		Priority:        req.Priority,
		Status:          req.Status,
		ProjectID:       req.ProjectID,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// GetTask returns a single task under the ownership rule.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	taskReq := task.GetTaskRequest{
		PrincipalParams: principalParams(cl),
		ID:              c.Params("id"),
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp))
}

// UpdateTask overwrites every mutable field of a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	taskReq := task.UpdateTaskRequest{
		PrincipalParams: principalParams(cl),
		ID:              c.Params("id"),
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		Priority:        req.Priority,
		Status:          req.Status,
		ProjectID:       req.ProjectID,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"update",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp))
}

// DeleteTask removes a task permanently.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	taskReq := task.DeleteTaskRequest{
		PrincipalParams: principalParams(cl),
		ID:              c.Params("id"),
	}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(DeleteResponse{
		Deleted: resp.Deleted,
		ID:      resp.ID,
	})
}

// ListProjects returns all projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	var resp project.ListProjectsResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.projectContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&project.ListProjectsRequest{},
		&resp,
	); err != nil {
		return h.handleProjectError(c, err)
	}

	out := ProjectListResponse{
		Projects: make([]ProjectResponse, 0, len(resp.Projects)),
		Total:    resp.Total,
	}
	for _, p := range resp.Projects {
		out.Projects = append(out.Projects, ProjectResponse(p))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GetProject returns a single project.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	projectReq := project.GetProjectRequest{ID: c.Params("id")}
	var resp project.ProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.projectContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&projectReq,
		&resp,
	); err != nil {
		return h.handleProjectError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ProjectResponse(resp))
}

// CreateProject creates a project. The project service rejects
// non-Admin principals before looking at the input.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	cl, ok := claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	projectReq := project.CreateProjectRequest{
		UserID:      cl.UserID,
		Role:        string(cl.Role),
		Name:        req.Name,
		Description: req.Description,
	}
	var resp project.ProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.projectContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&projectReq,
		&resp,
	); err != nil {
		return h.handleProjectError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ProjectResponse(resp))
}

// principalParams converts validated claims to the wire principal sent
// with task service requests.
func principalParams(cl *user.Claims) task.PrincipalParams {
	return task.PrincipalParams{
		UserID: cl.UserID,
		Role:   string(cl.Role),
	}
}

// toTaskResponse converts a task service response to the HTTP shape.
func toTaskResponse(t task.TaskResponse) TaskResponse {
	return TaskResponse(t)
}

// toTaskListResponse converts a task listing to the HTTP shape.
func toTaskListResponse(resp task.ListTasksResponse) TaskListResponse {
	out := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(resp.Tasks)),
		Total: resp.Total,
	}
	for _, t := range resp.Tasks {
		out.Tasks = append(out.Tasks, toTaskResponse(t))
	}
	return out
}

// handleAuthError maps auth service errors to HTTP responses without
// exposing internals. Errors cross the service bus as strings, so
// matching happens on known messages.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid email format",
		})
	case strings.Contains(errStr, "username is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username is required",
		})
	case strings.Contains(errStr, "password must be at least"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at least 8 characters",
		})
	case strings.Contains(errStr, "password must be at most"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at most 72 characters",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleTaskError maps task service errors to HTTP responses.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "not allowed to access this task"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "You are not allowed to access this task",
		})
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Referenced project does not exist",
		})
	case strings.Contains(errStr, "is required"),
		strings.Contains(errStr, "must be one of"),
		strings.Contains(errStr, "must use the"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: validationMessage(errStr),
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleProjectError maps project service errors to HTTP responses.
func (h *Handlers) handleProjectError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "project not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Project not found",
		})
	case strings.Contains(errStr, "only admins can create projects"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Only admins can create projects",
		})
	case strings.Contains(errStr, "is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: validationMessage(errStr),
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// validationMessage extracts the human-readable tail of a wrapped
// validation error ("service call failed: title is required" becomes
// "title is required").
func validationMessage(errStr string) string {
	if idx := strings.LastIndex(errStr, ": "); idx >= 0 {
		return errStr[idx+2:]
	}
	return errStr
}
