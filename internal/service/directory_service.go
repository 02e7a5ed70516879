package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"

	"github.com/google/uuid"
)

const (
	maxUsernameLen = 50
	maxBioLen      = 500
)

type directoryService struct {
	userRepo     ports.UserRepository
	listingRepo  ports.ListingRepository
	purchaseRepo ports.PurchaseRepository
}

// NewDirectoryService creates the wallet-to-identity directory service.
func NewDirectoryService(
	userRepo ports.UserRepository,
	listingRepo ports.ListingRepository,
	purchaseRepo ports.PurchaseRepository,
) ports.DirectoryService {
	return &directoryService{
		userRepo:     userRepo,
		listingRepo:  listingRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (s *directoryService) ResolveOrCreateUser(ctx context.Context, walletAddress string) (*domain.User, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if err := validateWallet(walletAddress); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup user: %w", err))
	}

	if user == nil {
		now := time.Now().UTC()
		user = &domain.User{
			ID:            uuid.New(),
			WalletAddress: walletAddress,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		inserted, err := s.userRepo.Insert(ctx, user)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
		}
		if !inserted {
			// Lost the provisioning race; the winner's row is authoritative.
			user, err = s.userRepo.GetByWallet(ctx, walletAddress)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("reload user: %w", err))
			}
			if user == nil {
				return nil, apperror.InternalError(fmt.Errorf("user %s vanished after insert conflict", walletAddress))
			}
		}
	}

	return s.embedActivity(ctx, user)
}

func (s *directoryService) UpdateProfile(ctx context.Context, req ports.ProfileUpdateRequest) (*domain.User, error) {
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	if err := validateWallet(req.WalletAddress); err != nil {
		return nil, err
	}
	if req.Username != nil && len(*req.Username) > maxUsernameLen {
		return nil, apperror.Validation(fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	}
	if req.Bio != nil && len(*req.Bio) > maxBioLen {
		return nil, apperror.Validation(fmt.Sprintf("bio must be at most %d characters", maxBioLen))
	}

	patch := ports.ProfilePatch{
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	}

	user, err := s.userRepo.UpdateProfile(ctx, req.WalletAddress, patch)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update profile: %w", err))
	}
	if user == nil {
		// Upsert semantics: first contact provisions the row, then patches it.
		now := time.Now().UTC()
		fresh := &domain.User{
			ID:            uuid.New(),
			WalletAddress: req.WalletAddress,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := s.userRepo.Insert(ctx, fresh); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("provision user: %w", err))
		}
		user, err = s.userRepo.UpdateProfile(ctx, req.WalletAddress, patch)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update provisioned profile: %w", err))
		}
		if user == nil {
			return nil, apperror.InternalError(fmt.Errorf("user %s vanished during upsert", req.WalletAddress))
		}
	}

	return s.embedActivity(ctx, user)
}

// embedActivity attaches the user's listings and purchases.
func (s *directoryService) embedActivity(ctx context.Context, user *domain.User) (*domain.User, error) {
	listings, err := s.listingRepo.List(ctx, ports.ListingFilter{SellerID: &user.ID})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load user listings: %w", err))
	}
	purchases, err := s.purchaseRepo.List(ctx, &user.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load user purchases: %w", err))
	}
	user.Listings = listings
	user.Purchases = purchases
	return user, nil
}

// Base58 alphabet, 32-44 characters. Query-string callers bypass the gin
// binding validators, so the check is repeated here.
var walletRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

func validateWallet(walletAddress string) error {
	if !walletRe.MatchString(walletAddress) {
		return apperror.Validation("walletAddress must be a base58 Solana address")
	}
	return nil
}
