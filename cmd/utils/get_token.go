package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"jetlag-advisor/internal/infrastructure/config"
	"jetlag-advisor/internal/infrastructure/oauth"
	"jetlag-advisor/pkg/logger"
)

// Prints a Google Calendar refresh token for GOOGLE_CALENDAR_REFRESH_TOKEN.
func main() {
	log := logger.NewLogger("info")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.CalendarClientID == "" || cfg.CalendarClientSecret == "" {
		log.Fatal("GOOGLE_CALENDAR_CLIENT_ID and GOOGLE_CALENDAR_CLIENT_SECRET must be set")
	}

	calendarOAuth := oauth.NewCalendarOAuth(
		cfg.CalendarClientID,
		cfg.CalendarClientSecret,
		"",
		"http://localhost:8090/oauth2callback",
		log,
	)

	// Create a random state
	state := "random-state"

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		// Check state parameter
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the authorization code for a token
		token, err := calendarOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to exchange code: %v", err), http.StatusInternalServerError)
			return
		}

		// Print the refresh token
		fmt.Printf("\nRefresh Token: %s\n\n", token.RefreshToken)

		// Respond to the user
		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	// Generate the authorization URL
	fmt.Printf("Open this URL in your browser:\n%s\n", calendarOAuth.GenerateAuthURL(state))

	if err := http.ListenAndServe(":8090", nil); err != nil {
		log.Fatal("Callback server failed", "error", err)
	}
}
