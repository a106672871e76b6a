package flooring

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin/applovinclient"
	appmocks "github.com/meticalabs/smart-floors-external/infrastructure/integrator/applovin/mocks"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

func testChangeSet() domain.ChangeSet {
	unit := domain.AdUnit{ID: "u2", Name: "metica_android_reward_ad_unit_2"}
	return domain.ChangeSet{
		Entries: []domain.ChangeEntry{
			{
				Config: domain.AdUnitConfiguration{
					AdUnitID:   "u2",
					AdUnitName: "metica_android_reward_ad_unit_2",
					BidFloors:  testGroups("2.10"),
				},
				Unit: unit,
			},
		},
	}
}

func TestUpdaterSuccessFirstAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator := appmocks.NewMockIntegrator(ctrl)
	integrator.EXPECT().
		UpdateBidFloors(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	updater := NewUpdater(integrator, 3, 2)
	report := updater.Apply(context.Background(), testChangeSet())

	assert.Len(t, report.Results, 1)
	assert.Equal(t, domain.UpdateStatusSuccess, report.Results[0].Status)
	assert.Equal(t, 1, report.Results[0].Attempts)
}

func TestUpdaterRetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transient := &applovinclient.StatusError{StatusCode: http.StatusTooManyRequests}

	integrator := appmocks.NewMockIntegrator(ctrl)
	gomock.InOrder(
		integrator.EXPECT().
			UpdateBidFloors(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(transient),
		integrator.EXPECT().
			UpdateBidFloors(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
	)

	updater := NewUpdater(integrator, 3, 1)
	report := updater.Apply(context.Background(), testChangeSet())

	assert.Equal(t, domain.UpdateStatusSuccess, report.Results[0].Status)
	assert.Equal(t, 2, report.Results[0].Attempts)
}

func TestUpdaterPermanentFailureNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permanent := &applovinclient.StatusError{StatusCode: http.StatusBadRequest}

	integrator := appmocks.NewMockIntegrator(ctrl)
	integrator.EXPECT().
		UpdateBidFloors(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(permanent).
		Times(1)

	updater := NewUpdater(integrator, 3, 1)
	report := updater.Apply(context.Background(), testChangeSet())

	assert.Equal(t, domain.UpdateStatusFailed, report.Results[0].Status)
	assert.Equal(t, 1, report.Results[0].Attempts)
	assert.NotEmpty(t, report.Results[0].Error)
}

func TestUpdaterExhaustsAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator := appmocks.NewMockIntegrator(ctrl)
	integrator.EXPECT().
		UpdateBidFloors(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset")).
		Times(2)

	updater := NewUpdater(integrator, 2, 1)
	report := updater.Apply(context.Background(), testChangeSet())

	assert.Equal(t, domain.UpdateStatusFailed, report.Results[0].Status)
	assert.Equal(t, 2, report.Results[0].Attempts)
}

func TestUpdaterReportsSkippedUnits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator := appmocks.NewMockIntegrator(ctrl)

	updater := NewUpdater(integrator, 3, 1)
	report := updater.Apply(context.Background(), domain.ChangeSet{Skipped: []string{"ghost"}})

	assert.Len(t, report.Results, 1)
	assert.Equal(t, "ghost", report.Results[0].AdUnitID)
	assert.Equal(t, domain.UpdateStatusSkipped, report.Results[0].Status)
}

func TestUpdaterIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permanent := &applovinclient.StatusError{StatusCode: http.StatusUnprocessableEntity}

	changes := testChangeSet()
	changes.Entries = append(changes.Entries, domain.ChangeEntry{
		Config: domain.AdUnitConfiguration{
			AdUnitID:   "u3",
			AdUnitName: "metica_android_reward_ad_unit_3",
			BidFloors:  testGroups("2.10"),
		},
		Unit: domain.AdUnit{ID: "u3", Name: "metica_android_reward_ad_unit_3"},
	})

	integrator := appmocks.NewMockIntegrator(ctrl)
	integrator.EXPECT().
		UpdateBidFloors(gomock.Any(), gomock.AssignableToTypeOf(domain.AdUnit{}), gomock.Any()).
		DoAndReturn(func(_ context.Context, unit domain.AdUnit, _ []domain.CountryGroup) error {
			if unit.ID == "u2" {
				return permanent
			}
			return nil
		}).
		Times(2)

	updater := NewUpdater(integrator, 1, 2)
	report := updater.Apply(context.Background(), changes)

	assert.Equal(t, domain.UpdateStatusFailed, report.Results[0].Status)
	assert.Equal(t, domain.UpdateStatusSuccess, report.Results[1].Status)
}
