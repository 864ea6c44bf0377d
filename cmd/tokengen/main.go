package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/infrastructure/auth"
	"github.com/sellerops/backend/internal/infrastructure/config"
)

// tokengen mints access tokens for operators. There is no login
// endpoint; tokens are issued here by an administrator and handed to
// the operator out of band.
func main() {
	var (
		userID     string
		username   string
		role       string
		operated   string
		supervised string
		expiration time.Duration
	)

	flag.StringVar(&userID, "user-id", "", "User UUID (generated when omitted)")
	flag.StringVar(&username, "username", "", "Username embedded in the token (required)")
	flag.StringVar(&role, "role", identity.RoleOperation, "Role: admin, manager or operation")
	flag.StringVar(&operated, "operated", "", "Comma-separated country codes the user operates (e.g. ID,TH)")
	flag.StringVar(&supervised, "supervised", "", "Comma-separated country codes the user supervises")
	flag.DurationVar(&expiration, "expiration", 0, "Token lifetime override (e.g. 720h); default from config")
	flag.Parse()

	if username == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -username is required")
		flag.Usage()
		os.Exit(1)
	}

	switch role {
	case identity.RoleAdmin, identity.RoleManager, identity.RoleOperation:
	default:
		fmt.Fprintf(os.Stderr, "tokengen: unknown role %q\n", role)
		os.Exit(1)
	}

	id := uuid.New()
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tokengen: invalid -user-id: %v\n", err)
			os.Exit(1)
		}
		id = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: jwt.secret is not configured (set SELLEROPS_JWT_SECRET)")
		os.Exit(1)
	}

	jwtCfg := cfg.JWT
	if expiration > 0 {
		jwtCfg.AccessTokenExpiration = expiration
	}

	principal := identity.Principal{
		UserID:              id,
		Username:            username,
		Role:                role,
		OperatedCountries:   splitCodes(operated),
		SupervisedCountries: splitCodes(supervised),
	}

	token, expiresAt, err := auth.NewJWTService(jwtCfg).GenerateToken(principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user_id:    %s\n", principal.UserID)
	fmt.Printf("username:   %s\n", principal.Username)
	fmt.Printf("role:       %s\n", principal.Role)
	fmt.Printf("expires_at: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.ToUpper(strings.TrimSpace(p)); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
