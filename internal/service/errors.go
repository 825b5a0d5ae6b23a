package service

import "errors"

var (
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrUserNotFound    = errors.New("user with given username not found")
	ErrGigNotFound     = errors.New("gig not found")
	ErrGigNotAvailable = errors.New("gig is not accepting inquiries")
)
