package authController

import (
	"errors"
	"time"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	authValidator "internlab/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxInviteAttempts = 5

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&existing).Error; err != nil {
		logger.Log.Error("register: email lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("register: hashing password failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Public registration always creates an intern
	newUser := models.User{
		Name:      reqData.Name,
		Email:     reqData.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleIntern,
		Phone:     reqData.Phone,
		College:   reqData.College,
		Duration:  reqData.Duration,
		Interests: reqData.Interests,
	}
	if err := db.Create(&newUser).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logger.Log.Error("register: saving user failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.InvalidateStats(c.Context())

	// An invite that cannot be redeemed does not fail registration
	var enrolledProgramID *uint
	if reqData.InviteToken != "" {
		enrollment, err := utils.RedeemInvite(db, newUser.ID, reqData.InviteToken, time.Now())
		if err != nil {
			logger.Log.Warn("register: invite not redeemed", "userId", newUser.ID, "error", err)
		} else {
			enrolledProgramID = &enrollment.ProgramID
			utils.AnnounceEnrollment(db, enrollment.ID)
		}
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Role)
	if err != nil {
		logger.Log.Error("register: token generation failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	utils.SendEmailAsync(newUser.Email, newUser.Name, utils.WelcomeEmail(newUser.Name))
	logger.Log.Info("user registered", "userId", newUser.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":              newUser,
		"token":             token,
		"enrolledProgramId": enrolledProgramID,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	cfg := config.AppConfig
	now := time.Now()

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error("login: user lookup failed", "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	// A block or a failure streak older than the block window starts over
	blockWindow := time.Duration(cfg.LoginBlockMinutes) * time.Minute
	if user.IsBlocked || (user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > blockWindow) {
		user.FailedLoginAttempts = 0
		user.IsBlocked = false
		user.BlockedUntil = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     now,
			"is_blocked":            false,
			"blocked_until":         nil,
		}
		if user.FailedLoginAttempts+1 >= cfg.LoginMaxAttempts {
			updates["is_blocked"] = true
			updates["blocked_until"] = now.Add(blockWindow)
			logger.Log.Warn("login: account blocked", "userId", user.ID)
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			logger.Log.Error("login: saving failed attempt", "userId", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"last_login":            now,
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
		"is_blocked":            false,
		"blocked_until":         nil,
	}).Error; err != nil {
		logger.Log.Error("login: saving last login failed", "userId", user.ID, "error", err)
	}
	user.LastLogin = &now

	ip := c.IP()
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Error("login: saving login tracking failed", "userId", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Log.Info("user logged in", "userId", user.ID, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Me(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched.", user)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page := validators.GetPagination(c)
	db := database.Database.Db

	var loginTracking []models.LoginTracking
	if err := db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&loginTracking).Error; err != nil {
		logger.Log.Error("login history failed", "userId", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	var total int64
	if err := db.Model(&models.LoginTracking{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Log.Error("login history count failed", "userId", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": loginTracking,
		"pagination":    validators.PageMeta(page, total),
	})
}

func ChangePassword(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Current password is incorrect!", nil)
	}
	if reqData.NewPassword == reqData.CurrentPassword {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "New password must be different from the current password!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("change password: hashing failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		logger.Log.Error("change password: update failed", "userId", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func CreateInvite(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	reqData, ok := c.Locals("validatedInvite").(*authValidator.InviteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	cfg := config.AppConfig

	var program models.Program
	if err := db.First(&program, reqData.ProgramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
		}
		logger.Log.Error("create invite: program lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invite code!", nil)
	}

	invite := models.InviteCode{
		ProgramID:   program.ID,
		CreatedByID: userID,
		ExpiresAt:   time.Now().AddDate(0, 0, cfg.InviteCodeTTLDays),
	}
	// retry on the rare collision with an existing code
	for attempt := 1; ; attempt++ {
		code, err := utils.GenerateInviteCode(cfg.InviteCodeLength)
		if err != nil {
			logger.Log.Error("create invite: generating code failed", "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invite code!", nil)
		}
		invite.Code = code

		err = db.Create(&invite).Error
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) || attempt >= maxInviteAttempts {
			logger.Log.Error("create invite: saving code failed", "attempt", attempt, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invite code!", nil)
		}
		invite.ID = 0
	}

	logger.Log.Info("invite code created", "programId", program.ID, "createdBy", userID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Invite code created.", fiber.Map{
		"inviteToken": invite.Code,
		"programId":   program.ID,
		"expiresAt":   invite.ExpiresAt,
	})
}

func ListInvites(c *fiber.Ctx) error {
	query := database.Database.Db.Preload("Program").Order("created_at DESC")
	if programID := c.QueryInt("programId", 0); programID > 0 {
		query = query.Where("program_id = ?", programID)
	}

	var invites []models.InviteCode
	if err := query.Find(&invites).Error; err != nil {
		logger.Log.Error("list invites failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch invite codes!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invite codes fetched.", invites)
}
