package subscription

import (
	"testing"
	"time"

	"shopdesk/internal/models"

	"github.com/stretchr/testify/require"
)

func TestActivationKeyShape(t *testing.T) {
	key := ActivationKey("9000000001@shopdesk.app", models.PlanPro, models.CycleYearly)
	require.Regexp(t, `^PRO-YEARLY-[0-9A-F]{12}$`, key)

	// Case of the email doesn't matter; everything else does.
	require.Equal(t, key, ActivationKey("9000000001@SHOPDESK.APP", models.PlanPro, models.CycleYearly))
	require.NotEqual(t, key, ActivationKey("other@shopdesk.app", models.PlanPro, models.CycleYearly))
	require.NotEqual(t, key, ActivationKey("9000000001@shopdesk.app", models.PlanBasic, models.CycleYearly))
	require.NotEqual(t, key, ActivationKey("9000000001@shopdesk.app", models.PlanPro, models.CycleMonthly))
}

func TestActivateProYearly(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)

	key := ActivationKey(user.Email, models.PlanPro, models.CycleYearly)
	sub, err := Activate(db, user, key)
	require.NoError(t, err)

	require.Equal(t, models.PlanPro, sub.PlanType)
	require.Equal(t, models.CycleYearly, sub.BillingCycle)
	require.True(t, sub.AIAddon) // pro includes the AI add-on
	require.True(t, sub.IsActive)
	require.NotNil(t, sub.ExpiresAt)
	require.WithinDuration(t, time.Now().AddDate(1, 0, 0), *sub.ExpiresAt, time.Minute)
}

func TestActivateBasicMonthlyHasNoAddon(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)

	sub, err := Activate(db, user, ActivationKey(user.Email, models.PlanBasic, models.CycleMonthly))
	require.NoError(t, err)
	require.Equal(t, models.PlanBasic, sub.PlanType)
	require.False(t, sub.AIAddon)
	require.WithinDuration(t, time.Now().AddDate(0, 1, 0), *sub.ExpiresAt, time.Minute)
}

func TestActivateRejectsBadKey(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)

	_, err := Activate(db, user, "PRO-YEARLY-DEADBEEF0000")
	require.ErrorIs(t, err, ErrInvalidKey)

	// A key minted for a different account is just as invalid.
	other := ActivationKey("someone-else@shopdesk.app", models.PlanPro, models.CycleYearly)
	_, err = Activate(db, user, other)
	require.ErrorIs(t, err, ErrInvalidKey)
}
