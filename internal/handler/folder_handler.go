package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/middleware"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// FolderHandler serves folder CRUD and folder/video membership for signed-in
// users. Every route sits behind middleware.RequireUser, so a missing user ID
// here is a wiring mistake, not a client error.
type FolderHandler struct {
	gw gateway.HistoryFolderGateway
}

func NewFolderHandler(gw gateway.HistoryFolderGateway) *FolderHandler {
	return &FolderHandler{gw: gw}
}

// List returns the user's folders, newest first.
func (h *FolderHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	folders, err := h.gw.ListFolders(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	c.JSON(http.StatusOK, folders)
}

// Create makes a new folder and returns it.
func (h *FolderHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req models.FolderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	folder, err := h.gw.CreateFolder(c.Request.Context(), userID, req.Name, req.Tag)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// Update renames or retags a folder.
func (h *FolderHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid folder ID")
		return
	}

	var req models.FolderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	folder, err := h.gw.UpdateFolder(c.Request.Context(), id, userID, req.Name, req.Tag)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// Delete removes a folder and, through the schema's cascade, its videos.
func (h *FolderHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid folder ID")
		return
	}

	if err := h.gw.DeleteFolder(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddVideo saves a video into a folder. Adding the same video twice is a 409.
func (h *FolderHandler) AddVideo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	folderID, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid folder ID")
		return
	}

	var req models.FolderVideoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	video := &models.FolderVideo{
		UserID:   userID,
		FolderID: folderID,
		VideoID:  req.VideoID,
		VideoURL: req.VideoURL,
	}
	if req.VideoTitle != "" {
		video.VideoTitle = &req.VideoTitle
	}

	if err := h.gw.AddVideoToFolder(c.Request.Context(), folderID, video); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// ListVideos returns the videos saved in one folder.
func (h *FolderHandler) ListVideos(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	folderID, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid folder ID")
		return
	}

	videos, err := h.gw.ListFolderVideos(c.Request.Context(), folderID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if videos == nil {
		videos = []models.FolderVideo{}
	}
	c.JSON(http.StatusOK, videos)
}

// RemoveVideo takes one saved video out of its folder.
func (h *FolderHandler) RemoveVideo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("videoEntryId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid folder video ID")
		return
	}

	if err := h.gw.RemoveVideoFromFolder(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
