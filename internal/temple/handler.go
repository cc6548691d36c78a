package temple

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sharath018/temple-registry/internal/media"
)

// CallerKey is the gin context key under which the auth middleware stores the Caller.
const CallerKey = "caller"

type Handler struct {
	Service *Service
	// MaxFileBytes caps how much of each uploaded part is read into memory.
	MaxFileBytes int64
}

func NewHandler(s *Service, maxFileBytes int64) *Handler {
	if maxFileBytes <= 0 {
		maxFileBytes = 5 << 20
	}
	return &Handler{Service: s, MaxFileBytes: maxFileBytes}
}

// ========== HELPERS ==========

func callerFrom(c *gin.Context) Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(Caller); ok {
			return caller
		}
	}
	return Caller{IP: c.ClientIP()}
}

func templeIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("templeId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, invalid("templeId", "Invalid temple ID")
	}
	return uint(id), nil
}

func indexParam(c *gin.Context) (int, error) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, invalid("index", "Invalid item index")
	}
	return idx, nil
}

func statusFor(k Kind) int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, err error) {
	kind := KindOf(err)
	status := statusFor(kind)

	errBody := gin.H{"code": kind.String(), "message": err.Error()}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			errBody["message"] = e.Message
		}
		if e.Field != "" {
			errBody["field"] = e.Field
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("❌ request failed")
		if e == nil {
			errBody["message"] = "Internal server error"
		}
	}

	c.JSON(status, gin.H{"success": false, "error": errBody})
}

func (h *Handler) readFile(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	// One extra byte lets the size check see oversize files.
	content, err := io.ReadAll(io.LimitReader(f, h.MaxFileBytes+1))
	if err != nil {
		return media.File{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return media.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func (h *Handler) readFiles(headers []*multipart.FileHeader) ([]media.File, error) {
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := h.readFile(fh)
		if err != nil {
			return nil, invalid("image", err.Error())
		}
		files = append(files, f)
	}
	return files, nil
}

// ========== CREATE / UPDATE ==========

// CreateTemple godoc
// @Summary Register a temple
// @Description Multipart form with a JSON "data" field, a required coverImage and optional photoGallery files
// @Tags Temples
// @Accept multipart/form-data
// @Produce json
// @Param data formData string true "Temple JSON"
// @Param coverImage formData file true "Cover image"
// @Param photoGallery formData file false "Gallery images"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/temples [post]
func (h *Handler) CreateTemple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, invalid("data", "Invalid form data"))
		return
	}

	var req CreateRequest
	raw := form.Value["data"]
	if len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		respondError(c, invalid("data", "Temple data is required"))
		return
	}
	if err := json.Unmarshal([]byte(raw[0]), &req); err != nil {
		respondError(c, invalid("data", "Temple data must be valid JSON"))
		return
	}

	var cover *media.File
	if fhs := form.File["coverImage"]; len(fhs) > 0 {
		f, err := h.readFile(fhs[0])
		if err != nil {
			respondError(c, invalid("coverImage", err.Error()))
			return
		}
		cover = &f
	}
	gallery, err := h.readFiles(form.File["photoGallery"])
	if err != nil {
		respondError(c, err)
		return
	}

	t, err := h.Service.Create(c.Request.Context(), callerFrom(c), req, cover, gallery)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Temple registered successfully", t)
}

// UpdateTemple godoc
// @Summary Update temple details
// @Tags Temples
// @Accept json
// @Produce json
// @Param templeId path int true "Temple ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/temples/{templeId} [patch]
func (h *Handler) UpdateTemple(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, invalid("body", "Invalid request body"))
		return
	}

	t, changes, err := h.Service.Update(c.Request.Context(), callerFrom(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Temple updated successfully"
	if len(changes) == 0 {
		msg = "No changes detected"
	}
	respondOK(c, http.StatusOK, msg, gin.H{"temple": t, "updatedFields": changes.Paths()})
}

type verifyRequest struct {
	Remarks string `json:"remarks"`
}

// VerifyTemple godoc
// @Summary Verify a temple
// @Tags Temples
// @Accept json
// @Produce json
// @Param templeId path int true "Temple ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/temples/{templeId}/verify [post]
func (h *Handler) VerifyTemple(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req verifyRequest
	// Body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, invalid("body", "Invalid request body"))
			return
		}
	}

	t, err := h.Service.Verify(c.Request.Context(), callerFrom(c), id, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temple verified successfully", t)
}

// ========== READS ==========

// GetMyTemple godoc
// @Summary Temple registered by the calling admin
// @Tags Temples
// @Produce json
// @Router /api/v1/temples/admin/me [get]
func (h *Handler) GetMyTemple(c *gin.Context) {
	t, err := h.Service.GetByAdmin(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temple fetched successfully", t)
}

// GetTempleByID godoc
// @Summary Get a temple by ID
// @Tags Temples
// @Produce json
// @Param templeId path int true "Temple ID"
// @Router /api/v1/temples/{templeId} [get]
func (h *Handler) GetTempleByID(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	t, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temple fetched successfully", t)
}

// GetTempleBySlug godoc
// @Summary Get a temple by slug
// @Tags Temples
// @Produce json
// @Param slug path string true "Temple slug"
// @Router /api/v1/temples/slug/{slug} [get]
func (h *Handler) GetTempleBySlug(c *gin.Context) {
	t, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temple fetched successfully", t)
}

// GetPublicTemples godoc
// @Summary Verified temple cards, newest first
// @Tags Temples
// @Produce json
// @Router /api/v1/temples/public [get]
func (h *Handler) GetPublicTemples(c *gin.Context) {
	cards, err := h.Service.PublicCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temples fetched successfully", cards)
}

func listParamsFrom(c *gin.Context) (ListParams, error) {
	p := ListParams{
		City:   c.Query("city"),
		State:  c.Query("state"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, invalid("page", "Page must be a number")
		}
		p.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, invalid("limit", "Limit must be a number")
		}
		p.Limit = n
	}
	if v := c.Query("isVerified"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, invalid("isVerified", "isVerified must be true or false")
		}
		p.Verified = &b
	}
	if v := c.Query("fields"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.Fields = append(p.Fields, f)
			}
		}
	}
	return p, nil
}

// ListTemples godoc
// @Summary List temples with filters and pagination
// @Tags Temples
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit (max 100)"
// @Param city query string false "City contains"
// @Param state query string false "State contains"
// @Param isVerified query bool false "Verification state"
// @Param sortBy query string false "createdAt|updatedAt|templeName|city|state"
// @Param order query string false "asc|desc"
// @Param fields query string false "Comma separated field list"
// @Router /api/v1/temples [get]
func (h *Handler) ListTemples(c *gin.Context) {
	p, err := listParamsFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.Service.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Temples fetched successfully", res)
}

// ExportTemples godoc
// @Summary Export temples
// @Tags Temples
// @Produce octet-stream
// @Param format query string true "csv|xlsx|pdf"
// @Router /api/v1/temples/export [get]
func (h *Handler) ExportTemples(c *gin.Context) {
	p, err := listParamsFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")

	data, filename, contentType, err := h.Service.Export(c.Request.Context(), callerFrom(c), format, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ========== MEDIA ==========

// ReplaceCoverImage godoc
// @Summary Replace the cover image
// @Tags Temple Media
// @Accept multipart/form-data
// @Param templeId path int true "Temple ID"
// @Param coverImage formData file true "Cover image"
// @Router /api/v1/temples/{templeId}/cover-image [patch]
func (h *Handler) ReplaceCoverImage(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	fh, err := c.FormFile("coverImage")
	if err != nil {
		respondError(c, invalid("coverImage", "Cover image is required"))
		return
	}
	f, err := h.readFile(fh)
	if err != nil {
		respondError(c, invalid("coverImage", err.Error()))
		return
	}

	t, err := h.Service.ReplaceCoverImage(c.Request.Context(), callerFrom(c), id, &f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cover image updated successfully", gin.H{"coverImage": t.CoverImage})
}

// AddGalleryImages godoc
// @Summary Add gallery images
// @Tags Temple Media
// @Accept multipart/form-data
// @Param templeId path int true "Temple ID"
// @Param photoGallery formData file true "Gallery images"
// @Router /api/v1/temples/{templeId}/gallery [post]
func (h *Handler) AddGalleryImages(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, invalid("photoGallery", "Invalid form data"))
		return
	}
	files, err := h.readFiles(form.File["photoGallery"])
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.Service.AddGalleryImages(c.Request.Context(), callerFrom(c), id, files)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, fmt.Sprintf("%d image(s) added to gallery", len(res.AddedImages)), res)
}

type removeImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// RemoveGalleryImage godoc
// @Summary Remove one gallery image
// @Tags Temple Media
// @Accept json
// @Param templeId path int true "Temple ID"
// @Router /api/v1/temples/{templeId}/gallery [delete]
func (h *Handler) RemoveGalleryImage(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req removeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		respondError(c, invalid("imageUrl", "Image URL is required"))
		return
	}

	removed, err := h.Service.RemoveGalleryImage(c.Request.Context(), callerFrom(c), id, strings.TrimSpace(req.ImageURL))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Image removed from gallery", gin.H{"removedImage": removed})
}

// ========== CEREMONIES / EVENTS ==========

// AddCeremony godoc
// @Summary Add a special ceremony
// @Tags Temple Schedule
// @Accept json
// @Param templeId path int true "Temple ID"
// @Router /api/v1/temples/{templeId}/ceremonies [post]
func (h *Handler) AddCeremony(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in CeremonyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, invalid("body", "Invalid request body"))
		return
	}
	out, err := h.Service.AddCeremony(c.Request.Context(), callerFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Ceremony added successfully", gin.H{"specialCeremonies": out})
}

// RemoveCeremony godoc
// @Summary Remove a special ceremony by position
// @Tags Temple Schedule
// @Param templeId path int true "Temple ID"
// @Param index path int true "Zero-based position"
// @Router /api/v1/temples/{templeId}/ceremonies/{index} [delete]
func (h *Handler) RemoveCeremony(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	idx, err := indexParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	removed, err := h.Service.RemoveCeremony(c.Request.Context(), callerFrom(c), id, idx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Ceremony removed successfully", gin.H{"removed": removed})
}

// AddEvent godoc
// @Summary Add an upcoming event
// @Tags Temple Schedule
// @Accept json
// @Param templeId path int true "Temple ID"
// @Router /api/v1/temples/{templeId}/events [post]
func (h *Handler) AddEvent(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, invalid("body", "Invalid request body"))
		return
	}
	out, err := h.Service.AddEvent(c.Request.Context(), callerFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Event added successfully", gin.H{"upcomingEvents": out})
}

// RemoveEvent godoc
// @Summary Remove an upcoming event by position
// @Tags Temple Schedule
// @Param templeId path int true "Temple ID"
// @Param index path int true "Zero-based position"
// @Router /api/v1/temples/{templeId}/events/{index} [delete]
func (h *Handler) RemoveEvent(c *gin.Context) {
	id, err := templeIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	idx, err := indexParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	removed, err := h.Service.RemoveEvent(c.Request.Context(), callerFrom(c), id, idx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Event removed successfully", gin.H{"removed": removed})
}
