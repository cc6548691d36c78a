package routes

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sharath018/temple-registry/config"
	"github.com/sharath018/temple-registry/internal/auditlog"
	"github.com/sharath018/temple-registry/internal/temple"
	"github.com/sharath018/temple-registry/middleware"

	_ "github.com/sharath018/temple-registry/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the wired components the router exposes.
type Deps struct {
	Config   *config.Config
	Temples  *temple.Handler
	Audit    *auditlog.Handler
	Registry *prometheus.Registry
	Redis    *redis.Client
	// UploadDir is served under /uploads when media is stored locally.
	UploadDir string
}

func Setup(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.UploadDir != "" {
		r.GET("/uploads/:filename", func(c *gin.Context) {
			serveUpload(c, d.UploadDir)
		})
	}

	api := r.Group("/api/v1")
	api.Use(middleware.AuditMiddleware())
	api.Use(middleware.RateLimiter(d.Redis, d.Config.RateLimitPerMinute))

	// ========== PUBLIC ==========
	public := api.Group("/temples")
	{
		public.GET("/public", d.Temples.GetPublicTemples)
		public.GET("/slug/:slug", d.Temples.GetTempleBySlug)
		public.GET("", d.Temples.ListTemples)
		public.GET("/:templeId", d.Temples.GetTempleByID)
	}

	// ========== AUTHENTICATED ==========
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Config))

	temples := protected.Group("/temples")
	{
		write := middleware.RBACMiddleware(middleware.WriteRoles...)
		superOnly := middleware.RBACMiddleware(middleware.RoleSuperAdmin)

		temples.POST("", write, d.Temples.CreateTemple)
		temples.GET("/admin/me", write, d.Temples.GetMyTemple)
		temples.GET("/export", superOnly, d.Temples.ExportTemples)
		temples.PATCH("/:templeId", write, d.Temples.UpdateTemple)
		temples.POST("/:templeId/verify", superOnly, d.Temples.VerifyTemple)

		temples.PATCH("/:templeId/cover-image", write, d.Temples.ReplaceCoverImage)
		temples.POST("/:templeId/gallery", write, d.Temples.AddGalleryImages)
		temples.DELETE("/:templeId/gallery", write, d.Temples.RemoveGalleryImage)

		temples.POST("/:templeId/ceremonies", write, d.Temples.AddCeremony)
		temples.DELETE("/:templeId/ceremonies/:index", write, d.Temples.RemoveCeremony)
		temples.POST("/:templeId/events", write, d.Temples.AddEvent)
		temples.DELETE("/:templeId/events/:index", write, d.Temples.RemoveEvent)
	}

	audit := protected.Group("/audit-logs")
	audit.Use(middleware.RBACMiddleware(middleware.RoleSuperAdmin))
	{
		audit.GET("", d.Audit.GetAuditLogs)
		audit.GET("/stats", d.Audit.GetAuditLogStats)
		audit.GET("/:id", d.Audit.GetAuditLogByID)
	}
}

// serveUpload serves one stored media file, refusing paths outside uploadDir.
func serveUpload(c *gin.Context, uploadDir string) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameters"})
		return
	}

	cleanPath := filepath.Clean(filepath.Join(uploadDir, filename))
	if !strings.HasPrefix(cleanPath, filepath.Clean(uploadDir)+string(os.PathSeparator)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	fileInfo, err := os.Stat(cleanPath)
	if os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("path", cleanPath).Msg("❌ upload stat failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File access error"})
		return
	}

	c.Header("Content-Type", contentTypeFor(filename))
	c.Header("Content-Length", fmt.Sprintf("%d", fileInfo.Size()))
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.File(cleanPath)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
