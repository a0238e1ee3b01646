package handlers

import (
	"encoding/json"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTasks(c *gin.Context) {
	if !h.requireProjectAccess(c, c.Param("id")) {
		return
	}

	filter := repository.TaskFilter{
		TitleQuery: c.Query("q"),
		Status:     domain.TaskStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	tasks, err := h.TaskService.ListByProject(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.TaskService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.requireProjectAccess(c, task.ProjectID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

type CreateTaskRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	MilestoneID *string `json:"milestone_id"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, _ := getUserID(c)

	var req CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	status := domain.TaskStatus(req.Status)
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	priority := domain.TaskPriority(req.Priority)
	if priority != "" && !priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}

	task := &domain.Task{
		ProjectID:   req.ProjectID,
		MilestoneID: req.MilestoneID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
	}
	if req.DueDate != nil {
		due, err := parseTimestamp(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
			return
		}
		task.DueDate = &due
	}

	if err := h.TaskService.Create(c.Request.Context(), userID, task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
	// raw so that "leave alone" (absent), "clear" (null) and "set"
	// (string) stay distinguishable
	MilestoneID json.RawMessage `json:"milestone_id"`
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, _ := getUserID(c)

	var req UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	update := repository.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		update.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		update.Priority = &priority
	}
	if req.DueDate != nil {
		if _, err := parseTimestamp(*req.DueDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
			return
		}
	}
	if len(req.MilestoneID) > 0 {
		update.SetMilestone = true
		if string(req.MilestoneID) != "null" {
			var id string
			if err := json.Unmarshal(req.MilestoneID, &id); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone_id"})
				return
			}
			update.MilestoneID = &id
		}
	}

	task, err := h.TaskService.Update(c.Request.Context(), userID, c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, _ := getUserID(c)

	if err := h.TaskService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListComments(c *gin.Context) {
	task, err := h.TaskService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.requireProjectAccess(c, task.ProjectID) {
		return
	}

	comments, err := h.TaskService.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, _ := getUserID(c)

	var req AddCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	comment, err := h.TaskService.AddComment(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
