package authController

import (
	"fmt"
	"log"
	"time"

	"krpic_backend/config"
	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"
	"krpic_backend/utils"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Provider: "local",
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	go utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	// Social accounts have no password to check
	if user.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "This account uses social login!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	now := time.Now()
	db.Model(&user).Update("last_login", now)

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// kakaoUserInfo is the subset of Kakao's /v2/user/me response we use.
type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// KakaoLogin exchanges a Kakao access token for a session. The account is
// created on first login and matched by provider ID afterwards.
func KakaoLogin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedKakao").(*struct {
		AccessToken string `json:"access_token"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	client := resty.New().SetTimeout(10 * time.Second)

	var info kakaoUserInfo
	resp, err := client.R().
		SetAuthToken(reqData.AccessToken).
		SetResult(&info).
		Get(config.AppConfig.KakaoApiURL + "/v2/user/me")
	if err != nil {
		log.Printf("Kakao userinfo request failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to verify Kakao account!", nil)
	}
	if resp.IsError() || info.ID == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Kakao access token!", nil)
	}

	db := database.Database.Db
	providerID := fmt.Sprintf("%d", info.ID)

	var user models.User
	err = db.Where("provider = ? AND provider_id = ? AND is_deleted = false", "kakao", providerID).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
		}

		email := info.KakaoAccount.Email
		if email == "" {
			email = fmt.Sprintf("kakao_%s@kakao.local", providerID)
		}

		user = models.User{
			Name:       info.KakaoAccount.Profile.Nickname,
			Email:      email,
			Provider:   "kakao",
			ProviderID: providerID,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating Kakao user: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
		}

		go utils.SendWelcomeEmail(user.Email, user.Name)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	now := time.Now()
	db.Model(&user).Update("last_login", now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}
