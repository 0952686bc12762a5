package utils

import (
  "fmt"
  "regexp"
  "strings"

  "golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("Failed to hash password: %w", err)
  }
  return string(hashed), nil
}

func VerifyPassword(hashedPassword, password string) error {
  return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func NormalizeUsername(username string) string {
  return strings.ToLower(strings.TrimSpace(username))
}

func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}

func ValidateRegistration(username, email, password string) error {
  if strings.TrimSpace(username) == "" {
    return fmt.Errorf("username is required")
  }
  if !emailPattern.MatchString(email) {
    return fmt.Errorf("invalid email address")
  }
  if len(password) < 8 {
    return fmt.Errorf("password must be at least 8 characters")
  }
  return nil
}

func ValidateLogin(username, password string) error {
  if strings.TrimSpace(username) == "" {
    return fmt.Errorf("username is required")
  }
  if password == "" {
    return fmt.Errorf("password is required")
  }
  return nil
}
