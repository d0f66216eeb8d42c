// Command report prints a user's dashboard as plain text.
//
//	report -email jane@example.com [-id <linkage id>] [-page 2]
//	report -migrations
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/LovationAdmin/horizon-api/config"
	"github.com/LovationAdmin/horizon-api/migration"
	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/services"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/joho/godotenv"
	"github.com/kr/text"
)

const wrapWidth = 72

func main() {
	email := flag.String("email", "", "email of the user to report on")
	linkageID := flag.String("id", "", "linkage id of the account (default: first linked account)")
	page := flag.Int("page", 1, "transaction page")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	showMigrations := flag.Bool("migrations", false, "print migration status and exit")
	flag.Parse()

	_ = godotenv.Load()
	settings := config.Load()
	utils.InitLogger(os.Stderr, settings.Production, settings.LogLevel)
	log := utils.Logger()

	if *email == "" && !*showMigrations {
		flag.Usage()
		os.Exit(2)
	}

	db, err := config.InitDB(settings.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *showMigrations {
		if err := migration.Status(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to read migration status")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	users := services.NewUserService(db)
	user, err := users.GetUserByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Str("email", utils.MaskEmail(*email)).Msg("Failed to load user")
	}

	accounts := services.NewAccountService(services.NewBankingService(db), services.NewPlaidService(settings.Plaid))
	resolver := services.NewTransactionResolver(accounts, accounts)

	session := &models.Session{UserID: user.ID, Email: user.Email}
	account, summaries, err := resolver.ResolveAccount(ctx, session, *linkageID)
	if err != nil {
		outcome := services.Outcome(err)
		log.Fatal().Err(err).Str("state", string(outcome.State)).Str("reason", outcome.Reason).Msg("Failed to resolve account")
	}

	dashboard := services.BuildDashboard(account, summaries, settings.PageSize, *page, time.Now())
	writeReport(os.Stdout, user, dashboard)
}

func writeReport(w io.Writer, user *models.User, d models.Dashboard) {
	fmt.Fprintf(w, "%s\n", user.FullName())
	fmt.Fprintf(w, "%d linked account(s), total %s\n\n", d.TotalBanks, d.TotalCurrentBalance)

	var accounts strings.Builder
	for _, a := range d.Accounts {
		marker := " "
		if a.LinkageID == d.LinkageID {
			marker = "*"
		}
		fmt.Fprintf(&accounts, "%s %s (%s) %s\n", marker, a.Name, a.Mask, services.FormatCurrency(a.CurrentBalance, a.Currency))
	}
	fmt.Fprintf(w, "Accounts\n%s\n", text.Indent(accounts.String(), "  "))

	var categories strings.Builder
	for _, c := range d.TopCategories {
		fmt.Fprintf(&categories, "%-20s %3d%% (%d)\n", c.Name, c.Percentage, c.Count)
	}
	fmt.Fprintf(w, "Top categories\n%s\n", text.Indent(categories.String(), "  "))

	fmt.Fprintf(w, "Transactions (page %d of %d)\n", d.Page, d.TotalPages)
	for _, row := range d.Transactions {
		line := fmt.Sprintf("%s  %s  %s  [%s] %s", row.Date.DateOnly, row.Name, row.Amount, row.Status, row.Category)
		fmt.Fprint(w, text.Indent(text.Wrap(line, wrapWidth), "  ")+"\n")
	}
}
