package controller

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"

	"sportlink-service/apperr"
	"sportlink-service/config"
	"sportlink-service/event"
	"sportlink-service/model"
	"sportlink-service/utils"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	db       *gorm.DB
	rdb      *redis.Client
	enforcer *casbin.Enforcer
	bus      *event.Bus
}

func NewAuthController(db *gorm.DB, rdb *redis.Client, enforcer *casbin.Enforcer, bus *event.Bus) *AuthController {
	return &AuthController{db: db, rdb: rdb, enforcer: enforcer, bus: bus}
}

type AuthSignupInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Sport       string `json:"sport"`
	Position    string `json:"position"`
	TeamName    string `json:"team_name"`
}

type AuthLoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthRenewTokenInput struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthOtpSecretInput struct {
	Password string `json:"password"`
}

type AuthOtpVerifyInput struct {
	Token string `json:"token"`
}

type AuthOtpValidateInput struct {
	Token string `json:"token"`
}

type AuthOtpDisableInput struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	input := new(AuthSignupInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "username, email and password are required"))
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "invalid email address"))
	}

	// If existed email is found, return error
	if count := a.db.
		Where(&model.User{Email: input.Email}).
		First(new(model.User)).
		RowsAffected; count > 0 {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "email is already registered"))
	}

	// If existed username is found, return error
	if count := a.db.
		Where(&model.User{Username: input.Username}).
		First(new(model.User)).
		RowsAffected; count > 0 {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "username is already registered"))
	}

	// Generate hash from password.
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 14)
	if err != nil {
		return apperr.Respond(c, err)
	}

	user := &model.User{
		Username:    input.Username,
		Email:       input.Email,
		Password:    string(hash),
		DisplayName: input.DisplayName,
		Sport:       input.Sport,
		Position:    input.Position,
		TeamName:    input.TeamName,
		Role:        "user",
	}

	// Generate OTP secret
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      config.Config("OTP_ISSUER"),
		AccountName: user.Email,
		SecretSize:  15,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	user.Otp_secret = key.Secret()

	// Save user to database
	if err := a.db.Create(user).Error; err != nil {
		return apperr.Respond(c, err)
	}

	// Add casbin grouping policy
	a.enforcer.AddGroupingPolicy(fmt.Sprint(user.ID), user.Role)

	if a.bus != nil {
		a.bus.Emit("api", "user.signup", []byte(fmt.Sprintf(`{"id":%d}`, user.ID)), true)
	}

	return apperr.OK(c, fiber.Map{
		"id": user.ID,
	})
}

func (a *AuthController) Signin(c *fiber.Ctx) error {
	input := new(AuthLoginInput)
	if err := c.BodyParser(&input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := new(model.User), *new(error)

	_, errParse := mail.ParseAddress(input.Login)
	if errParse == nil {
		err = a.db.Where(&model.User{Email: input.Login}).First(&userModel).Error
	} else {
		err = a.db.Where(&model.User{Username: input.Login}).First(&userModel).Error
	}

	if err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid login or password"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userModel.Password), []byte(input.Password)); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid login or password"))
	}

	if userModel.Banned {
		return apperr.Respond(c, apperr.New(apperr.CodeForbidden, "account is banned"))
	}

	idStr := strconv.FormatUint(uint64(userModel.ID), 10)

	// Generate JWT Access & Refresh tokens
	tokens, err := utils.GenerateTokens(idStr, userModel.Otp_enabled)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := a.rdb.Set(context.Background(), idStr, tokens.Refresh, 0).Err(); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"2fa":     userModel.Otp_enabled,
	})
}

func (a *AuthController) TokenRenew(c *fiber.Ctx) error {
	renew := &AuthRenewTokenInput{}
	if err := c.BodyParser(renew); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	claims, err := utils.CheckAndExtractTokenMetadata(renew.RefreshToken, "JWT_REFRESH_KEY")
	if err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid token"))
	}

	userToken, err := a.rdb.Get(context.Background(), claims.Id).Result()
	if err != nil {
		return apperr.Respond(c, err)
	}

	if userToken != renew.RefreshToken {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "refresh token was already used"))
	}

	// Generate JWT Access & Refresh tokens
	tokens, err := utils.GenerateTokens(claims.Id, claims.Otp)
	if err != nil {
		return apperr.Respond(c, err)
	}

	// Save refresh token to Redis
	if err := a.rdb.Set(context.Background(), claims.Id, tokens.Refresh, 0).Err(); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"2fa":     claims.Otp,
	})
}

func (a *AuthController) currentUser(c *fiber.Ctx) (*model.User, error) {
	user := c.Locals("user").(*jwt.Token)
	claims := user.Claims.(jwt.MapClaims)

	userModel := new(model.User)
	if err := a.db.First(userModel, claims["id"]).Error; err != nil {
		return nil, err
	}
	return userModel, nil
}

func (a *AuthController) OtpSecret(c *fiber.Ctx) error {
	secret := &AuthOtpSecretInput{}
	if err := c.BodyParser(secret); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := a.currentUser(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userModel.Password), []byte(secret.Password)); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid password"))
	}

	return apperr.OK(c, fiber.Map{
		"secret": userModel.Otp_secret,
		"url": fmt.Sprintf("otpauth://totp/%s:%s?algorithm=SHA1&digits=6&issuer=%s&period=30&secret=%s",
			config.Config("OTP_ISSUER"),
			userModel.Email,
			config.Config("OTP_ISSUER"),
			userModel.Otp_secret,
		),
	})
}

func (a *AuthController) OtpVerify(c *fiber.Ctx) error {
	verify := &AuthOtpVerifyInput{}
	if err := c.BodyParser(verify); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := a.currentUser(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if userModel.Otp_enabled {
		return apperr.Respond(c, apperr.New(apperr.CodeAlreadyHandled, "verification has already been performed earlier"))
	}

	if !totp.Validate(verify.Token, userModel.Otp_secret) {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid token"))
	}

	userModel.Otp_enabled = true
	a.db.Save(&userModel)

	return apperr.OK(c, nil)
}

func (a *AuthController) OtpValidate(c *fiber.Ctx) error {
	validate := &AuthOtpValidateInput{}
	if err := c.BodyParser(validate); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := a.currentUser(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if !userModel.Otp_enabled {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "2FA has been disabled"))
	}

	if !totp.Validate(validate.Token, userModel.Otp_secret) {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid token"))
	}

	idStr := strconv.FormatUint(uint64(userModel.ID), 10)

	// Generate JWT Access & Refresh tokens
	tokens, err := utils.GenerateTokens(idStr, false)
	if err != nil {
		return apperr.Respond(c, err)
	}

	// Save refresh token to Redis
	if err := a.rdb.Set(context.Background(), idStr, tokens.Refresh, 0).Err(); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

func (a *AuthController) OtpDisable(c *fiber.Ctx) error {
	disable := &AuthOtpDisableInput{}
	if err := c.BodyParser(disable); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := a.currentUser(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if !userModel.Otp_enabled {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "2fa not enabled"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userModel.Password), []byte(disable.Password)); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid password"))
	}

	if !totp.Validate(disable.Token, userModel.Otp_secret) {
		return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "invalid token"))
	}

	userModel.Otp_enabled = false
	a.db.Save(&userModel)

	return apperr.OK(c, nil)
}
