// Command ledger is a terminal front end for the transaction form. Each
// invocation mounts the form against the ledger service, performs one
// action and prints the resulting view.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/damon-houk/ledger-form/internal/application/viewmodel"
	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/infrastructure/api"
	"github.com/damon-houk/ledger-form/internal/infrastructure/config"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
)

const usage = `usage: ledger <command> [flags]

commands:
  list                                  show all transactions
  add    -amount A -category C [-description D] [-income] -date YYYY-MM-DD
  edit   -id ID [-amount A] [-category C] [-description D] [-income=bool] [-date YYYY-MM-DD]
  delete -id ID
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewJSONLogger(os.Stderr, cfg.Log.Level)
	client := api.NewLedgerAPIClient(cfg.Client.BaseURL, &http.Client{Timeout: cfg.Client.Timeout}, log)
	vm := viewmodel.New(client, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, vm, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, vm *viewmodel.ViewModel, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	id := fs.String("id", "", "transaction id")
	amount := fs.String("amount", "", "amount")
	category := fs.String("category", "", "category")
	description := fs.String("description", "", "description")
	income := fs.Bool("income", false, "record as income")
	date := fs.String("date", "", "date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := vm.Mount(ctx); err != nil {
		return err
	}

	inputs := func(explicit bool) []viewmodel.Input {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		var in []viewmodel.Input
		for name, value := range map[string]string{
			"amount":      *amount,
			"category":    *category,
			"description": *description,
			"date":        *date,
		} {
			if !explicit || set[name] {
				in = append(in, viewmodel.TextInput(name, value))
			}
		}
		if !explicit || set["income"] {
			in = append(in, viewmodel.CheckboxInput("is_income", *income))
		}
		return in
	}

	switch cmd {
	case "list":

	case "add":
		if err := apply(vm, inputs(false)); err != nil {
			return err
		}
		if err := vm.Submit(ctx); err != nil {
			return err
		}

	case "edit":
		tx, err := find(vm.State(), *id)
		if err != nil {
			return err
		}
		if err := vm.BeginEdit(tx); err != nil {
			return err
		}
		if err := apply(vm, inputs(true)); err != nil {
			return err
		}
		if err := vm.Submit(ctx); err != nil {
			return err
		}

	case "delete":
		if *id == "" {
			return fmt.Errorf("%w: -id is required", errUsage)
		}
		if err := vm.DeleteRow(ctx, entity.ID(*id)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	return printView(out, vm.View())
}

func apply(vm *viewmodel.ViewModel, inputs []viewmodel.Input) error {
	for _, in := range inputs {
		if err := vm.UpdateField(in); err != nil {
			return err
		}
	}
	return nil
}

func find(s viewmodel.State, id string) (entity.Transaction, error) {
	if id == "" {
		return entity.Transaction{}, fmt.Errorf("%w: -id is required", errUsage)
	}
	for _, tx := range s.Transactions {
		if tx.ID.String() == id {
			return tx, nil
		}
	}
	return entity.Transaction{}, fmt.Errorf("transaction %s is not listed", id)
}

func printView(out io.Writer, v viewmodel.View) error {
	if v.Placeholder != "" {
		_, err := fmt.Fprintln(out, v.Placeholder)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAMOUNT\tCATEGORY\tDESCRIPTION\tINCOME\tDATE")
	for _, r := range v.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Amount, r.Category, r.Description, r.Income, r.Date)
	}
	return w.Flush()
}
