package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"standup/src/models"
	"standup/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(user *models.User) (string, error) {
	teamId := uint(0)
	if user.TeamID != nil {
		teamId = *user.TeamID
	}
	exp := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Email:    user.Email,
		Role:     string(user.Role),
		Timezone: user.Timezone,
		TeamID:   teamId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// UniqueIDs returns ids with duplicates removed, first occurrence order kept.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ComparePassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// CreateNewTeam creates the team row and the creator's admin membership, and
// points the creator's team_id at the new team. Runs inside tx so a duplicate
// name rolls everything back.
func CreateNewTeam(tx *gorm.DB, params *types.CreateTeamRequestBody, creatorId uint) (*models.Team, error) {
	var count int64
	if err := tx.Model(&models.Team{}).Where("name = ?", params.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("team name already exists")
	}
	team := models.Team{
		Name:         params.Name,
		Slug:         slug.Make(params.Name),
		Description:  params.Description,
		ReminderTime: params.ReminderTime,
		CreatedBy:    creatorId,
		Members: []models.TeamMember{
			{UserID: creatorId, Role: types.ROLE_ADMIN},
		},
	}
	if err := tx.Create(&team).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", creatorId).Update("team_id", team.ID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// MoveMemberToTeam enforces the one-team-at-a-time invariant: the membership
// row in the old team is removed before the new one is added, and the user's
// team_id is overwritten. A nil newTeamId just detaches the user.
func MoveMemberToTeam(tx *gorm.DB, user *models.User, newTeamId *uint, role types.Role) error {
	if user.TeamID != nil {
		if err := tx.
			Where(&models.TeamMember{TeamID: *user.TeamID, UserID: user.ID}).
			Delete(&models.TeamMember{}).
			Error; err != nil {
			return err
		}
	}
	if newTeamId != nil {
		var team models.Team
		if err := tx.Where(&models.Team{ID: *newTeamId}).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("team [%d] not found", *newTeamId)
			}
			return err
		}
		var count int64
		if err := tx.Model(&models.TeamMember{}).
			Where(&models.TeamMember{TeamID: *newTeamId, UserID: user.ID}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrAlreadyMember
		}
		member := models.TeamMember{TeamID: *newTeamId, UserID: user.ID, Role: role}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("team_id", newTeamId).Error; err != nil {
		return err
	}
	user.TeamID = newTeamId
	return nil
}

// DeleteMember cascades: membership row, the user's standup history (and its
// media rows), then the user itself.
func DeleteMember(tx *gorm.DB, user *models.User) error {
	if user.TeamID != nil {
		if err := tx.
			Where(&models.TeamMember{TeamID: *user.TeamID, UserID: user.ID}).
			Delete(&models.TeamMember{}).
			Error; err != nil {
			return err
		}
	}
	var standupIds []uint
	if err := tx.Model(&models.Standup{}).Where("user_id = ?", user.ID).Pluck("id", &standupIds).Error; err != nil {
		return err
	}
	if len(standupIds) > 0 {
		if err := tx.Where("standup_id IN (?)", standupIds).Delete(&models.StandupMedia{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Standup{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
		return err
	}
	log.Printf("Deleted member [%d] with %d standups\n", user.ID, len(standupIds))
	return nil
}
