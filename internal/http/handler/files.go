package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/http/middleware"
	"travelapi/internal/service"
)

// UploadFile stores one multipart file (field "file") for the caller.
//
// @Summary   Upload file
// @Tags      files
// @Accept    mpfd
// @Produce   json
// @Security  BearerAuth
// @Param     file formData file true "image, PDF, Word or text file"
// @Success   200 {object} model.StoredFile
// @Failure   400 {object} errorPayload
// @Failure   413 {object} errorPayload
// @Router    /api/upload [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		rec, err := svc.Upload(c.UserContext(), middleware.ClaimsFrom(c).UserID, service.UploadInput{
			OriginalName: fh.Filename,
			ContentType:  fh.Header.Get(fiber.HeaderContentType),
			Size:         fh.Size,
			Reader:       f,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

// ListFiles returns the caller's uploads.
//
// @Summary   List files
// @Tags      files
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} model.StoredFile
// @Router    /api/files [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.List(c.UserContext(), middleware.ClaimsFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(files)
	}
}

// DeleteFile removes one of the caller's uploads and its binary.
//
// @Summary   Delete file
// @Tags      files
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "file id"
// @Success   200 {object} map[string]bool
// @Failure   404 {object} errorPayload
// @Router    /api/files/{id} [delete]
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), middleware.ClaimsFrom(c).UserID, c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// ServeUpload streams a stored binary by its stored filename.
//
// @Summary  Download upload
// @Tags     files
// @Param    filename path string true "stored filename"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /uploads/{filename} [get]
func ServeUpload(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Open(c.UserContext(), c.Params("filename"))
		if err != nil {
			return respondError(c, err)
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		return c.SendStream(rc, int(info.Size))
	}
}
