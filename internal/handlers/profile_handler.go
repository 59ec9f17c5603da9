package handlers

import (
	"errors"
	"net/http"
	"sync"

	"shopdesk/internal/database"
	"shopdesk/internal/i18n"
	"shopdesk/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Shop settings are read on almost every screen, so they're cached per
// user. updateProfileCache is the single write entry point; nothing else
// touches the map.
var (
	profileMu    sync.RWMutex
	profileCache = map[uint]models.ShopProfile{}
)

func cachedProfile(userID uint) (models.ShopProfile, bool) {
	profileMu.RLock()
	defer profileMu.RUnlock()
	p, ok := profileCache[userID]
	return p, ok
}

func updateProfileCache(p models.ShopProfile) {
	profileMu.Lock()
	defer profileMu.Unlock()
	profileCache[p.UserID] = p
}

// ResetProfileCache empties the settings cache, e.g. after the backing
// database changes underneath the server.
func ResetProfileCache() {
	profileMu.Lock()
	defer profileMu.Unlock()
	profileCache = map[uint]models.ShopProfile{}
}

// GetProfile returns the shop profile, creating an empty one on first
// access so the settings screen always has a record to edit.
func GetProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	if p, ok := cachedProfile(userID); ok {
		c.JSON(http.StatusOK, p)
		return
	}

	var profile models.ShopProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.ShopProfile{UserID: userID, InvoicePrefix: "INV"}
		if err := database.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	updateProfileCache(profile)
	c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	ShopName      string `json:"shop_name"`
	GSTIN         string `json:"gstin"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	InvoicePrefix string `json:"invoice_prefix"`
}

func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var profile models.ShopProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.ShopProfile{UserID: userID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	profile.ShopName = req.ShopName
	profile.GSTIN = req.GSTIN
	profile.Address = req.Address
	profile.Phone = req.Phone
	profile.InvoicePrefix = req.InvoicePrefix
	if profile.InvoicePrefix == "" {
		profile.InvoicePrefix = "INV"
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	updateProfileCache(profile)
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved", "profile": profile})
}

// GetTranslations hands the client its UI string table.
// /api/translations?lang=hi
func GetTranslations(c *gin.Context) {
	lang := i18n.English
	if c.Query("lang") == string(i18n.Hindi) {
		lang = i18n.Hindi
	}
	c.JSON(http.StatusOK, i18n.All(lang))
}
