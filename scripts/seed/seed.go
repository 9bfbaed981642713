package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"internlab/config"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SeedUser struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Email    string `yaml:"email" json:"email" validate:"required,email"`
	Password string `yaml:"password" json:"password" validate:"required,min=6"`
	Role     string `yaml:"role" json:"role" validate:"omitempty,oneof=ADMIN MENTOR INTERN"`
}

type SeedTask struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type" validate:"required,oneof=VIDEO READING QUIZ"`
	ContentURL  string `yaml:"contentUrl" json:"contentUrl" validate:"omitempty,url"`
	Mandatory   *bool  `yaml:"mandatory" json:"mandatory"`
	OrderIndex  int    `yaml:"orderIndex" json:"orderIndex"`
}

type SeedProgram struct {
	Title        string     `yaml:"title" json:"title" validate:"required"`
	Description  string     `yaml:"description" json:"description"`
	Domain       string     `yaml:"domain" json:"domain"`
	DurationDays int        `yaml:"durationDays" json:"durationDays" validate:"required,min=1"`
	StartDate    string     `yaml:"startDate" json:"startDate" validate:"required"`
	EndDate      string     `yaml:"endDate" json:"endDate" validate:"required"`
	Tasks        []SeedTask `yaml:"tasks" json:"tasks" validate:"dive"`
}

type SeedResource struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	URL         string `yaml:"url" json:"url" validate:"required,url"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
}

// SeedFile is the layout of the seed YAML document
type SeedFile struct {
	Admin     SeedUser       `yaml:"admin" json:"admin"`
	Staff     []SeedUser     `yaml:"staff" json:"staff" validate:"dive"`
	Programs  []SeedProgram  `yaml:"programs" json:"programs" validate:"dive"`
	Resources []SeedResource `yaml:"resources" json:"resources" validate:"dive"`
}

// Result counts what a seed run created
type Result struct {
	UsersCreated     int
	UsersUpgraded    int
	ProgramsCreated  int
	TasksCreated     int
	ResourcesCreated int
}

// DefaultSeed is used when no file is given
func DefaultSeed() SeedFile {
	return SeedFile{Admin: SeedUser{Name: "Admin", Email: "admin@internlab.com", Password: "admin123"}}
}

// LoadSeedFile reads and validates a seed document
func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	normalize(&file)
	if errs := validators.ValidateStruct(&file); len(errs) > 0 {
		return SeedFile{}, fmt.Errorf("invalid seed file: %s", joinErrors(errs))
	}
	return file, nil
}

func normalize(file *SeedFile) {
	if strings.TrimSpace(file.Admin.Email) == "" {
		file.Admin = DefaultSeed().Admin
	}
	file.Admin.Email = strings.ToLower(strings.TrimSpace(file.Admin.Email))
	for i := range file.Staff {
		file.Staff[i].Email = strings.ToLower(strings.TrimSpace(file.Staff[i].Email))
		file.Staff[i].Role = strings.ToUpper(file.Staff[i].Role)
	}
	for i := range file.Programs {
		for j := range file.Programs[i].Tasks {
			file.Programs[i].Tasks[j].Type = strings.ToUpper(file.Programs[i].Tasks[j].Type)
		}
	}
}

func joinErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = errs[field]
	}
	return strings.Join(parts, " ")
}

// Apply writes the seed document. It can be re-run: users match on email,
// programs on title and resources on url.
func Apply(db *gorm.DB, file SeedFile) (Result, error) {
	var result Result
	err := db.Transaction(func(tx *gorm.DB) error {
		admin := file.Admin
		admin.Role = models.RoleAdmin
		adminUser, created, upgraded, err := upsertUser(tx, admin)
		if err != nil {
			return err
		}
		countUser(&result, created, upgraded)

		for _, staff := range file.Staff {
			if staff.Role == "" {
				staff.Role = models.RoleMentor
			}
			_, created, upgraded, err := upsertUser(tx, staff)
			if err != nil {
				return err
			}
			countUser(&result, created, upgraded)
		}

		for _, program := range file.Programs {
			created, tasks, err := createProgram(tx, program, adminUser.ID)
			if err != nil {
				return err
			}
			if created {
				result.ProgramsCreated++
				result.TasksCreated += tasks
			}
		}

		for _, resource := range file.Resources {
			created, err := createResource(tx, resource, adminUser.ID)
			if err != nil {
				return err
			}
			if created {
				result.ResourcesCreated++
			}
		}
		return nil
	})
	return result, err
}

func countUser(result *Result, created, upgraded bool) {
	if created {
		result.UsersCreated++
	}
	if upgraded {
		result.UsersUpgraded++
	}
}

// upsertUser creates the user, or raises an existing admin seed account to its role
func upsertUser(tx *gorm.DB, seed SeedUser) (models.User, bool, bool, error) {
	var user models.User
	err := tx.Where("email = ?", seed.Email).First(&user).Error
	if err == nil {
		if seed.Role == models.RoleAdmin && user.Role != models.RoleAdmin {
			if err := tx.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
				return user, false, false, fmt.Errorf("upgrade %s: %w", seed.Email, err)
			}
			return user, false, true, nil
		}
		return user, false, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, false, fmt.Errorf("lookup %s: %w", seed.Email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), config.AppConfig.SaltRound)
	if err != nil {
		return user, false, false, fmt.Errorf("hash password: %w", err)
	}
	user = models.User{Name: seed.Name, Email: seed.Email, Password: string(hash), Role: seed.Role}
	if err := tx.Create(&user).Error; err != nil {
		return user, false, false, fmt.Errorf("create %s: %w", seed.Email, err)
	}
	return user, true, false, nil
}

func createProgram(tx *gorm.DB, seed SeedProgram, createdBy uint) (bool, int, error) {
	var existing int64
	if err := tx.Model(&models.Program{}).Where("title = ?", seed.Title).Count(&existing).Error; err != nil {
		return false, 0, fmt.Errorf("lookup program %q: %w", seed.Title, err)
	}
	if existing > 0 {
		return false, 0, nil
	}

	start, err := utils.ParseDate(seed.StartDate)
	if err != nil {
		return false, 0, fmt.Errorf("program %q start date: %w", seed.Title, err)
	}
	end, err := utils.ParseDate(seed.EndDate)
	if err != nil {
		return false, 0, fmt.Errorf("program %q end date: %w", seed.Title, err)
	}
	if end.Before(start) {
		return false, 0, fmt.Errorf("program %q ends before it starts", seed.Title)
	}

	program := models.Program{
		Title:        seed.Title,
		Description:  seed.Description,
		Domain:       seed.Domain,
		DurationDays: seed.DurationDays,
		StartDate:    datatypes.Date(start),
		EndDate:      datatypes.Date(end),
		CreatedByID:  createdBy,
	}
	if err := tx.Create(&program).Error; err != nil {
		return false, 0, fmt.Errorf("create program %q: %w", seed.Title, err)
	}

	for _, t := range seed.Tasks {
		mandatory := true
		if t.Mandatory != nil {
			mandatory = *t.Mandatory
		}
		task := models.Task{
			ProgramID:   program.ID,
			Title:       t.Title,
			Description: t.Description,
			Type:        t.Type,
			ContentURL:  t.ContentURL,
			Mandatory:   mandatory,
			OrderIndex:  t.OrderIndex,
			CreatedByID: createdBy,
		}
		if err := tx.Create(&task).Error; err != nil {
			return false, 0, fmt.Errorf("create task %q: %w", t.Title, err)
		}
	}
	return true, len(seed.Tasks), nil
}

func createResource(tx *gorm.DB, seed SeedResource, createdBy uint) (bool, error) {
	var existing int64
	if err := tx.Model(&models.Resource{}).Where("url = ?", seed.URL).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("lookup resource %q: %w", seed.URL, err)
	}
	if existing > 0 {
		return false, nil
	}

	resource := models.Resource{Title: seed.Title, URL: seed.URL, CreatedByID: createdBy}
	if seed.Description != "" {
		resource.Description = &seed.Description
	}
	if seed.Category != "" {
		resource.Category = &seed.Category
	}
	if err := tx.Create(&resource).Error; err != nil {
		return false, fmt.Errorf("create resource %q: %w", seed.Title, err)
	}
	return true, nil
}
