package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/metrics"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
)

const (
	msgUserAlreadyExists  = "User with this username, email, or phone number already exists."
	msgUserNotFound       = "User not found"
	msgInvalidPassword    = "Invalid Password"
	msgRegisterSuccess    = "Register success"
	msgLoginSuccess       = "Login success"
	msgLogoutSuccess      = "Logout success"
	msgUpdateUserSuccess  = "Update user success"
	msgCurrentUser        = "Get current user"
	msgFailedToHash       = "failed to hash password"
	msgFailedToSignToken  = "failed to generate token"
	msgProfileImageFailed = "Upload image failed"
)

func checkUserExists(tx *gorm.DB, username, email, phoneNumber string) (bool, error) {
	var count int64
	err := tx.Model(&models.User{}).
		Where("username = ? OR email = ? OR phone_number = ?", username, email, phoneNumber).
		Count(&count).Error
	return count > 0, err
}

func findUserByEmail(tx *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	return user, err
}

// claimOwnerSlot inserts the owner bootstrap row; only the first caller
// across all transactions gets a row affected.
func claimOwnerSlot(tx *gorm.DB, userID uint) (bool, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Bootstrap{Name: models.BootstrapOwner, UserID: userID})
	return result.RowsAffected == 1, result.Error
}

func setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.SessionCookie, value, maxAge, "/", "", initializers.Config.IsProduction(), true)
}

// issueSession signs a token for user, sets the jwt cookie and writes the
// user (without password) as the response body.
func issueSession(ctx *gin.Context, user models.User, status int, message string) {
	ttl := initializers.Config.JWTExpiresIn
	token, err := utils.GenerateSessionToken(user.ID, initializers.Config.JWTSecret, ttl)
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgFailedToSignToken, err))
		return
	}

	setSessionCookie(ctx, token, int(ttl.Seconds()))
	sendJSONResponse(ctx, status, gin.H{"message": message, "data": user})
}

// Register creates a user. The first user ever created becomes the owner.
func Register(ctx *gin.Context) {
	var data models.RegisterData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	exists, err := checkUserExists(db(ctx), data.Username, data.Email, data.PhoneNumber)
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}
	if exists {
		respondWithError(ctx, utils.ConflictError(msgUserAlreadyExists))
		return
	}

	hashedPassword, err := utils.HashPassword(data.Password)
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgFailedToHash, err))
		return
	}

	user := models.User{
		Username:    data.Username,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Password:    hashedPassword,
		Role:        models.RoleUser,
	}

	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		claimed, err := claimOwnerSlot(tx, user.ID)
		if err != nil || !claimed {
			return err
		}
		user.Role = models.RoleOwner
		return tx.Model(&user).Update("role", models.RoleOwner).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(ctx, utils.ConflictError(msgUserAlreadyExists))
			return
		}
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	metrics.UsersRegistered.WithLabelValues(user.Role).Inc()
	log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	issueSession(ctx, user, http.StatusCreated, msgRegisterSuccess)
}

func Login(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	user, err := findUserByEmail(db(ctx), data.Email)
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgUserNotFound))
		return
	}

	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		respondWithError(ctx, utils.AuthError(msgInvalidPassword))
		return
	}

	issueSession(ctx, user, http.StatusOK, msgLoginSuccess)
}

func GetCurrentUser(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var user models.User
	if err := db(ctx).First(&user, userID).Error; err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgUserNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgCurrentUser, "data": user})
}

// Logout expires the cookie. Tokens are stateless, so a copied token stays
// valid until it expires.
func Logout(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLogoutSuccess})
}

// UpdateProfile accepts JSON or multipart form data with an optional "image"
// file. Empty fields keep their stored values.
func UpdateProfile(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var user models.User
	if err := db(ctx).First(&user, userID).Error; err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgUserNotFound))
		return
	}

	var data models.UpdateProfileData
	if err := ctx.ShouldBind(&data); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	updates := map[string]any{}
	if data.Username != "" {
		updates["username"] = data.Username
	}
	if data.Email != "" {
		updates["email"] = data.Email
	}
	if data.Address != "" {
		updates["address"] = data.Address
	}
	if data.PhoneNumber != "" {
		updates["phone_number"] = data.PhoneNumber
	}
	if data.Password != "" {
		hashedPassword, err := utils.HashPassword(data.Password)
		if err != nil {
			respondWithError(ctx, utils.InternalError(msgFailedToHash, err))
			return
		}
		updates["password"] = hashedPassword
	}

	file, err := ctx.FormFile("image")
	switch {
	case err == nil:
		url, err := uploadImage(ctx, file, utils.FolderProfiles)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		updates["image"] = url
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		respondWithError(ctx, utils.UploadError(msgProfileImageFailed, err))
		return
	}

	if len(updates) > 0 {
		if err := db(ctx).Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(ctx, utils.ConflictError(msgUserAlreadyExists))
				return
			}
			respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
			return
		}
	}

	if err := db(ctx).First(&user, userID).Error; err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgUserNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpdateUserSuccess, "data": user})
}
