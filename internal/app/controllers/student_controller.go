package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/services"
	"github.com/vaxtrack/vaxtrack/internal/middleware"
)

// StudentController handles student management endpoints.
type StudentController struct {
	studentService *services.StudentService
	uploadDir      string
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, uploadDir string, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		uploadDir:      uploadDir,
		logger:         logger,
	}
}

// Create registers a new student.
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create student payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.AddStudent(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", student.StudentID).Msg("Student created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// List returns students matching the optional class, name and status
// filters.
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(
		ctx.Request.Context(),
		ctx.Query("class"),
		ctx.Query("name"),
		ctx.Query("status"),
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: students, Timestamp: time.Now()})
}

// Get returns a single student by business identifier.
func (c *StudentController) Get(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// Update modifies the editable fields of a student.
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// Vaccinate records a vaccination for the student against a drive.
func (c *StudentController) Vaccinate(ctx *gin.Context) {
	var req dto.VaccinateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.Vaccinate(ctx.Request.Context(), ctx.Param("id"), req.DriveID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("studentID", ctx.Param("id")).
		Str("driveId", req.DriveID).
		Msg("Student vaccinated")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// Import ingests a CSV file of students. The upload is staged on disk
// and removed once parsed, whatever the outcome.
func (c *StudentController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadFormat, "Invalid or missing file")))
		return
	}

	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadFormat, "Only CSV files are accepted")))
		return
	}

	stagedPath := filepath.Join(c.uploadDir, uuid.New().String()+".csv")
	if err := ctx.SaveUploadedFile(file, stagedPath); err != nil {
		c.logger.Error().Err(err).Msg("Failed to stage uploaded CSV")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to store uploaded file")))
		return
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil {
			c.logger.Warn().Err(err).Str("path", stagedPath).Msg("Failed to remove staged CSV")
		}
	}()

	staged, err := os.Open(stagedPath)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read staged CSV")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to read uploaded file")))
		return
	}
	defer staged.Close()

	result, err := c.studentService.ImportStudents(ctx.Request.Context(), staged)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Student CSV import completed")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}
