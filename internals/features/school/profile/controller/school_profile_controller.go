// file: internals/features/school/profile/controller/school_profile_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "laporanku_backend/internals/features/school/profile/model"
	helper "laporanku_backend/internals/helpers"
	helperAuth "laporanku_backend/internals/helpers/auth"
)

/*
Controller profil sekolah: rentang kelas, peminatan yang dibuka, kontak
notifikasi. Profil ini yang menentukan kunci baris laporan; sekolah tanpa
profil jatuh ke rentang legacy lewat resolver.
*/

type SchoolProfileController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSchoolProfileController(db *gorm.DB) *SchoolProfileController {
	return &SchoolProfileController{
		DB:        db,
		Validator: validator.New(),
	}
}

type upsertProfileRequest struct {
	Name         string   `json:"name" validate:"required,max=160"`
	GradeMin     int      `json:"grade_min" validate:"required,min=1,max=12"`
	GradeMax     int      `json:"grade_max" validate:"required,min=1,max=12"`
	Strands      []string `json:"strands" validate:"omitempty,dive,oneof=MIPA IPS BAHASA"`
	ContactName  *string  `json:"contact_name,omitempty" validate:"omitempty,max=120"`
	ContactEmail *string  `json:"contact_email,omitempty" validate:"omitempty,email,max=160"`
}

func (ctl *SchoolProfileController) upsert(c *fiber.Ctx, schoolID uuid.UUID) error {
	var req upsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.GradeMax < req.GradeMin {
		return helper.JsonError(c, fiber.StatusBadRequest, "grade_max tidak boleh lebih kecil dari grade_min")
	}

	strands := req.Strands
	if strands == nil {
		strands = []string{}
	}
	raw, err := json.Marshal(strands)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	prof := model.SchoolProfileModel{
		SchoolProfileSchoolID: schoolID,
		SchoolProfileName:     strings.TrimSpace(req.Name),
		SchoolProfileGradeMin: req.GradeMin,
		SchoolProfileGradeMax: req.GradeMax,
		SchoolProfileStrands:  datatypes.JSON(raw),
	}
	if req.ContactName != nil {
		prof.SchoolProfileContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.ContactEmail != nil {
		prof.SchoolProfileContactEmail = strings.TrimSpace(*req.ContactEmail)
	}

	var existing model.SchoolProfileModel
	err = ctl.DB.First(&existing, "school_profile_school_id = ?", schoolID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := ctl.DB.Create(&prof).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonCreated(c, "Profil sekolah dibuat", prof)
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	upd := map[string]any{
		"school_profile_name":      prof.SchoolProfileName,
		"school_profile_grade_min": prof.SchoolProfileGradeMin,
		"school_profile_grade_max": prof.SchoolProfileGradeMax,
		"school_profile_strands":   prof.SchoolProfileStrands,
	}
	if req.ContactName != nil {
		upd["school_profile_contact_name"] = prof.SchoolProfileContactName
	}
	if req.ContactEmail != nil {
		upd["school_profile_contact_email"] = prof.SchoolProfileContactEmail
	}
	if err := ctl.DB.Model(&existing).Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.First(&existing, "school_profile_school_id = ?", schoolID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Profil sekolah diperbarui", existing)
}

// UpsertMine: PUT /api/u/school-profile — sekolah mengelola profilnya
// sendiri; school_id dipaksa dari token.
func (ctl *SchoolProfileController) UpsertMine(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.upsert(c, schoolID)
}

// GetMine: GET /api/u/school-profile
func (ctl *SchoolProfileController) GetMine(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var prof model.SchoolProfileModel
	if err := ctl.DB.First(&prof, "school_profile_school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Profil sekolah belum diisi")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", prof)
}

// UpsertForSchool: PUT /api/a/school-profiles/:school_id — admin mengisi
// profil atas nama sekolah (onboarding massal).
func (ctl *SchoolProfileController) UpsertForSchool(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(strings.TrimSpace(c.Params("school_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "School ID pada path tidak valid")
	}
	return ctl.upsert(c, schoolID)
}

// GetForSchool: GET /api/a/school-profiles/:school_id
func (ctl *SchoolProfileController) GetForSchool(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(strings.TrimSpace(c.Params("school_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "School ID pada path tidak valid")
	}

	var prof model.SchoolProfileModel
	if err := ctl.DB.First(&prof, "school_profile_school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Profil sekolah belum diisi")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", prof)
}
