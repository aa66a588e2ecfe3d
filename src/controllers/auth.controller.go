package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"standup/src/db"
	"standup/src/lib"
	"standup/src/models"
	"standup/src/types"
	"standup/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("no user found with this email")
		}
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	if err := utils.ComparePassword(user.Password, body.Password); err != nil {
		return nil, http.StatusUnauthorized, errors.New("incorrect password")
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.User{}).
			Where("id", user.ID).
			Update("last_active", time.Now()).
			Error
	}); err != nil {
		log.Printf("Error logging in user [%d]: %s\n", user.ID, err.Error())
	}

	jwt, err := utils.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error generating token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	lib.CacheUserJSON(ctx, user.ID, &user)

	return &jwt, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (userId *uint, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	role := types.Role(body.Role)
	if role == "" {
		role = types.ROLE_MEMBER
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	db := db.GetDb()
	var newUser models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count).
			Error; err != nil {
			return errors.New("could not complete transaction")
		}
		if count > 0 {
			err := errors.New("user is already registered in the system. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}

		newUser = models.User{
			Name:     body.Name,
			Email:    body.Email,
			Password: hash,
			Timezone: body.Timezone,
			Role:     role,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return errors.New("error creating user")
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	return &newUser.ID, http.StatusCreated, nil
}
