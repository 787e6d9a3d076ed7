// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /auth/signup endpoint.
// It uses Gin's binding tags for validation (required, email format, password length).
type SignupReq struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// VerifyEmailReq represents the request body for the /auth/verify-email endpoint.
type VerifyEmailReq struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=8,numeric"`
}

// ResendOTPReq represents the request body for the /auth/resend-otp endpoint.
type ResendOTPReq struct {
	Email string `json:"email" binding:"required,email"`
}
