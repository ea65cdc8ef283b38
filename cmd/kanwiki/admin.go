package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
	"golang.org/x/term"

	"kanwiki/internal/auth"
	"kanwiki/internal/config"
	"kanwiki/internal/database"
	"kanwiki/internal/page"
)

// readPassword is replaced in tests.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

const adminUsage = "usage: kanwiki admin genkey | adduser -name NAME [-email EMAIL] | pages"

func runAdmin(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(adminUsage)
	}

	switch args[0] {
	case "genkey":
		return genKey(out)
	case "adduser":
		return addUser(cfg, args[1:], out)
	case "pages":
		return listPages(cfg, out)
	default:
		return fmt.Errorf("unknown admin command %q\n%s", args[0], adminUsage)
	}
}

func genKey(out io.Writer) error {
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return errors.New("could not generate a random key")
	}
	_, err := fmt.Fprintln(out, base64.RawURLEncoding.EncodeToString(key))
	return err
}

func addUser(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	name := fs.String("name", "", "The name of the new user.")
	email := fs.String("email", "", "The optional email address of the new user.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !auth.ValidUsername(*name) {
		return errors.New(auth.MsgInvalidUsername)
	}
	if *email != "" && !auth.ValidEmail(*email) {
		return errors.New(auth.MsgInvalidEmail)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	if !auth.ValidPassword(string(password)) {
		return errors.New(auth.MsgInvalidPassword)
	}

	user, err := auth.NewUser(auth.SchemeBcrypt, *name, string(password), *email)
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	if err := auth.NewRepository(db).Create(context.Background(), user); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "created user %s (id %d)\n", user.Name, user.ID)
	return err
}

func listPages(cfg *config.Config, out io.Writer) error {
	db, err := database.New(cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	pages, err := page.NewRepository(db).List(context.Background())
	if err != nil {
		return err
	}
	for _, p := range pages {
		fmt.Fprintf(out, "%s\t%s\n", p.LastModified.Format("2006-01-02 15:04"), p.Name)
	}
	return nil
}
