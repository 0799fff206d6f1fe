package controllers

import (
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	"disasterconnect-http-service/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
)

// HandleUploadFunc returns a gin handler serving locally stored images
func HandleUploadFunc(container *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uploads := container.GetService("uploads").(*storage.LocalBackend)

		path, err := uploads.Path(ctx.Param("filename"))
		if err != nil {
			response.Fail(ctx, code.ErrFileNotFound)
			return
		}
		ctx.File(path)
	}
}
