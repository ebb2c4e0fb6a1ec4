package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrSkipLimitReached   = errors.New("daily skip limit reached")
	ErrWrongAnswer        = errors.New("wrong answer")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrPredictionClosed   = errors.New("prediction is no longer active")
	ErrAlreadyWon         = errors.New("prediction already won by this user")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDecryption         = errors.New("failed to decrypt answer")
	ErrReferralCodeTaken  = errors.New("referral code already in use")
	ErrReferralCodeSet    = errors.New("referral code can only be set once")
	ErrReferralCodeShort  = errors.New("referral code must be at least 4 characters")
	ErrInvalidReferral    = errors.New("invalid referral code")
)
