package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email or username already exists",
	}

	// ErrGalleryNotAvailable covers both an unknown slug and a private
	// gallery, so the response never leaks which one it was.
	ErrGalleryNotAvailable = ErrorResponse{
		Status:  "error",
		Error:   "gallery_not_available",
		Details: "Gallery not available",
	}

	ErrViewerExpired = ErrorResponse{
		Status:  "error",
		Error:   "viewer_expired",
		Details: "Viewing session expired, reopen the gallery",
	}
)
