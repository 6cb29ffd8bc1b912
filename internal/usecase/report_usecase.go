package usecase

import (
	"context"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/infrastructure/ratelimit"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type ReportUseCase struct {
	reportRepo  repository.ReportRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	limiter     ActionLimiter
	onHide      func(ctx context.Context)
}

func NewReportUseCase(
	reportRepo repository.ReportRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	limiter ActionLimiter,
) *ReportUseCase {
	if limiter == nil {
		limiter = allowAll{}
	}
	return &ReportUseCase{
		reportRepo:  reportRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		limiter:     limiter,
	}
}

// OnListingHidden registers a callback fired after a resolution hides a listing.
func (uc *ReportUseCase) OnListingHidden(fn func(ctx context.Context)) {
	uc.onHide = fn
}

type CreateReportInput struct {
	ListingID      string
	ReportedUserID string
	Reason         string
	Details        string
}

func IsValidReportReason(reason string) bool {
	for _, r := range entity.ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

func (uc *ReportUseCase) CreateReport(ctx context.Context, reporterID string, input CreateReportInput) (*entity.Report, error) {
	reason := strings.ToLower(strings.TrimSpace(input.Reason))
	if !IsValidReportReason(reason) {
		return nil, errors.BadRequest("Invalid report reason", nil)
	}
	if (input.ListingID == "") == (input.ReportedUserID == "") {
		return nil, errors.BadRequest("Report either a listing or a user", nil)
	}

	if input.ReportedUserID != "" {
		if input.ReportedUserID == reporterID {
			return nil, errors.BadRequest("You cannot report yourself", nil)
		}
		if _, err := uc.userRepo.GetByID(ctx, input.ReportedUserID); err != nil {
			return nil, err
		}
	} else {
		listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
		if err != nil {
			return nil, err
		}
		if listing.PosterID == reporterID {
			return nil, errors.BadRequest("You cannot report your own listing", nil)
		}
	}

	if ok, wait := uc.limiter.Allow(reporterID, ratelimit.ActionReport); !ok {
		return nil, errors.TooManyRequests("Too many reports, try again later", wait)
	}

	report := &entity.Report{
		ReporterID:     reporterID,
		ListingID:      input.ListingID,
		ReportedUserID: input.ReportedUserID,
		Reason:         reason,
		Details:        strings.TrimSpace(input.Details),
		Status:         entity.ReportStatusPending,
		CreatedAt:      time.Now(),
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	logger.Info("Report %s filed by %s (%s)", report.ID, reporterID, reason)
	return report, nil
}

func (uc *ReportUseCase) ListReports(ctx context.Context, status string, limit, offset int) ([]*entity.Report, int64, error) {
	switch status {
	case "", entity.ReportStatusPending, entity.ReportStatusResolved, entity.ReportStatusDismissed:
	default:
		return nil, 0, errors.BadRequest("Invalid report status", nil)
	}
	return uc.reportRepo.List(ctx, status, limit, offset)
}

type ResolveReportInput struct {
	Dismiss     bool
	HideListing bool
}

func (uc *ReportUseCase) ResolveReport(ctx context.Context, admin *entity.User, reportID string, input ResolveReportInput) (*entity.Report, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Admin access required", nil)
	}

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != entity.ReportStatusPending {
		return nil, errors.Conflict("Report has already been handled", nil)
	}

	if input.HideListing && !input.Dismiss {
		if report.ListingID == "" {
			return nil, errors.BadRequest("Report is not about a listing", nil)
		}
		if err := uc.listingRepo.SetHidden(ctx, report.ListingID, true); err != nil {
			return nil, err
		}
		if uc.onHide != nil {
			uc.onHide(ctx)
		}
	}

	now := time.Now()
	report.Status = entity.ReportStatusResolved
	if input.Dismiss {
		report.Status = entity.ReportStatusDismissed
	}
	report.ResolvedBy = admin.ID
	report.ResolvedAt = &now

	if err := uc.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	logger.Info("Report %s %s by %s", report.ID, report.Status, admin.ID)
	return report, nil
}
