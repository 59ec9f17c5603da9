package subscription

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"shopdesk/internal/models"

	"gorm.io/gorm"
)

// Plan activation works like an offline license: the vendor generates a
// key bound to the account email, plan and cycle, and the shop owner
// types it in. No payment gateway round-trip needed.

var ErrInvalidKey = errors.New("invalid activation key")

func activationSalt() string {
	if s := os.Getenv("ACTIVATION_SALT"); s != "" {
		return s
	}
	return "SHOPDESK-MASTER-SECRET-2026"
}

// ActivationKey computes the expected key for an account/plan/cycle
// combination, e.g. "PRO-YEARLY-3F2A91BC04DE". The same function backs
// the vendor-side keygen tool.
func ActivationKey(email, plan, cycle string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(email) + "|" + plan + "|" + cycle + "|" + activationSalt()))
	code := strings.ToUpper(hex.EncodeToString(hash[:])[:12])
	return strings.ToUpper(plan) + "-" + strings.ToUpper(cycle) + "-" + code
}

// Activate validates the key against every sellable plan/cycle pair for
// this account and applies the matching one. Pro includes the AI add-on.
func Activate(db *gorm.DB, user *models.User, key string) (*models.Subscription, error) {
	plans := []string{models.PlanBasic, models.PlanPro}
	cycles := []string{models.CycleMonthly, models.CycleYearly}

	var matchedPlan, matchedCycle string
	for _, p := range plans {
		for _, c := range cycles {
			if key == ActivationKey(user.Email, p, c) {
				matchedPlan, matchedCycle = p, c
			}
		}
	}
	if matchedPlan == "" {
		return nil, ErrInvalidKey
	}

	sub, _, err := EnsureForUser(db, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var expires time.Time
	if matchedCycle == models.CycleYearly {
		expires = now.AddDate(1, 0, 0)
	} else {
		expires = now.AddDate(0, 1, 0)
	}

	sub.PlanType = matchedPlan
	sub.BillingCycle = matchedCycle
	sub.AIAddon = matchedPlan == models.PlanPro
	sub.IsActive = true
	sub.ExpiresAt = &expires
	if err := db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}
