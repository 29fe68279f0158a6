package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
	"bookfinder/internal/core/service"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Establish a session with the book-search API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if username == "" {
				username = a.cfg.Username
			}
			if password == "" {
				password = a.cfg.Password
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required (flags or BF_USERNAME/BF_PASSWORD)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(a.cfg.HTTPTimeoutSeconds)*time.Second)
			defer cancel()

			token, expiresAt, err := a.gw.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := a.guard.Establish(token, expiresAt); err != nil {
				return fmt.Errorf("failed to persist session: %w", err)
			}

			cmd.Printf("Logged in. Session valid until %s.\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session (favorites are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.guard.Invalidate(); err != nil {
				return err
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query...]",
		Short: "Search for books (empty query shows current best sellers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(); err != nil {
				return err
			}

			page, err := runSearch(cmd.Context(), a, strings.Join(args, " "))
			if err != nil {
				return err
			}

			printPage(cmd, a, page)
			return nil
		},
	}
}

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the favorites list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show favorites in the order they were added",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			books := a.favorites.List()
			if len(books) == 0 {
				cmd.Println("No favorites yet.")
				return nil
			}
			for i, b := range books {
				cmd.Println(formatBook(i+1, b, true))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <book-id> [query...]",
		Short: "Search and add the matching book to favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(); err != nil {
				return err
			}

			id := args[0]
			page, err := runSearch(cmd.Context(), a, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			for _, b := range page.Items {
				if b.ID == id {
					if err := a.favorites.Add(cmd.Context(), b); err != nil {
						return fmt.Errorf("failed to save favorite: %w", err)
					}
					cmd.Printf("Added %q to favorites.\n", b.Title)
					return nil
				}
			}
			return fmt.Errorf("no book with id %q in the results for %q", id, page.Query)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <book-id>",
		Short: "Remove a book from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.favorites.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to update favorites: %w", err)
			}
			cmd.Println("Removed.")
			return nil
		},
	})

	return cmd
}

// runSearch drives one search session to completion and interprets its final
// state for the terminal.
func runSearch(ctx context.Context, a *app, query string) (models.SearchResultPage, error) {
	session := service.NewSearchSession(a.source, a.cfg.DefaultQuery)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.HTTPTimeoutSeconds)*time.Second)
	defer cancel()

	if err := session.Submit(ctx, query); err != nil {
		var authErr *ports.AuthError
		if errors.As(err, &authErr) {
			return models.SearchResultPage{}, fmt.Errorf("session expired; run 'bookfinder login' to sign in again")
		}
		return models.SearchResultPage{}, err
	}

	page := session.Page()
	if session.State() == service.StateFailed {
		if errors.Is(session.Err(), ports.ErrNoResults) {
			return page, nil
		}
		return page, fmt.Errorf("search failed: %v", session.Err())
	}
	return page, nil
}

func printPage(cmd *cobra.Command, a *app, page models.SearchResultPage) {
	if len(page.Items) == 0 {
		cmd.Printf("No books found for %q. Try searching for something else.\n", page.Query)
		return
	}

	cmd.Printf("Found %d books for %q:\n", len(page.Items), page.Query)
	for i, b := range page.Items {
		cmd.Println(formatBook(i+1, b, a.favorites.Contains(b.ID)))
	}
}

func formatBook(n int, b models.BookSummary, favorite bool) string {
	authors := "Unknown Author"
	if len(b.Authors) > 0 {
		authors = strings.Join(b.Authors, ", ")
	}

	line := fmt.Sprintf("%3d. %s — %s", n, b.Title, authors)
	if b.PublishedYear != nil {
		line += fmt.Sprintf(" (%d)", *b.PublishedYear)
	}
	if b.AverageRating != nil {
		line += fmt.Sprintf(" ★%.1f", *b.AverageRating)
	}
	if favorite {
		line += " [favorite]"
	}
	line += fmt.Sprintf("  [id: %s]", b.ID)
	return line
}
