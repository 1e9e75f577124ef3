// Command invledger runs ledger queries and bulk imports against the configured store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	importapp "github.com/invledger/backend/internal/application/import"
	tradeapp "github.com/invledger/backend/internal/application/trade"
	"github.com/invledger/backend/internal/bootstrap"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/invledger/backend/internal/domain/trade"
	"go.uber.org/zap"
)

func main() {
	var conflict string
	flag.StringVar(&conflict, "conflict", "", "Import conflict mode overriding the job file: skip, update or fail")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := bootstrap.New(ctx, bootstrap.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		os.Exit(1)
	}

	code := 0
	if err := run(ctx, engine, importapp.ConflictMode(conflict), args); err != nil {
		engine.Logger.Error("Command failed", zap.String("command", args[0]), zap.Error(err))
		code = 1
	}
	if err := engine.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing engine: %v\n", err)
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context, e *bootstrap.Engine, mode importapp.ConflictMode, args []string) error {
	switch args[0] {
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("usage: invledger import <job.json>")
		}
		if mode != "" && !mode.IsValid() {
			return fmt.Errorf("unknown conflict mode %q", mode)
		}
		return runImport(ctx, e, mode, args[1])

	case "create-invoice":
		if len(args) < 2 {
			return fmt.Errorf("usage: invledger create-invoice <file.json>")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		var req tradeapp.CreateInvoiceRequest
		if err := shared.DecodeStrict(f, &req); err != nil {
			return err
		}
		resp, err := e.Invoices.CreateInvoice(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(resp)

	case "item":
		if len(args) < 2 {
			return fmt.Errorf("usage: invledger item <ean>")
		}
		item, err := e.Items.GetByEAN(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(item)

	case "strategies":
		return printJSON(map[string]any{
			"cost":                e.Registry.ListCostStrategies(),
			"reset_point":         e.Registry.ListResetPointPolicies(),
			"default_cost":        e.Registry.GetDefault(strategy.StrategyTypeCost),
			"average_strategy":    e.Config.Ledger.AverageStrategy,
			"last_price_strategy": e.Config.Ledger.LastPriceStrategy,
			"reset_policy":        e.Config.Ledger.ResetPolicy,
		})

	case "stock":
		if len(args) < 2 {
			return fmt.Errorf("usage: invledger stock <ean>")
		}
		card, err := e.Ledger.StockCard(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(card)

	case "totals":
		if len(args) < 3 {
			return fmt.Errorf("usage: invledger totals <prefix> <number>")
		}
		totals, err := e.Invoices.Totals(ctx, trade.InvoiceKey{Prefix: args[1], Number: args[2]})
		if err != nil {
			return err
		}
		return printJSON(totals)

	case "next-number":
		if len(args) < 2 {
			return fmt.Errorf("usage: invledger next-number <type> [prefix]")
		}
		typ, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid invoice type %q", args[1])
		}
		var n int64
		if len(args) > 2 {
			n, err = e.Invoices.NextNumberForPrefix(ctx, trade.InvoiceType(typ), args[2])
		} else {
			n, err = e.Invoices.NextNumber(ctx, trade.InvoiceType(typ))
		}
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runImport(ctx context.Context, e *bootstrap.Engine, mode importapp.ConflictMode, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var job importapp.Job
	if err := shared.DecodeStrict(f, &job); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if mode != "" {
		job.Conflict = mode
	}

	batch := e.Importer.Process(ctx, job)
	if err := printJSON(batch); err != nil {
		return err
	}
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", batch.Failed, len(batch.Results))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Println(`Inventory ledger

Usage:
  invledger [flags] <command> [arguments]

Commands:
  import <job.json>             Import items and invoices of a job document
  create-invoice <file.json>    Create one invoice with its lines
  item <ean>                    Print an item
  strategies                    List registered cost strategies and reset policies
  stock <ean>                   Print the stock card of an item
  totals <prefix> <number>      Print the totals of an invoice
  next-number <type> [prefix]   Print the next free invoice number

Flags:
  -conflict string              Import conflict mode: skip, update, fail (default: job file, then fail)

Configuration is read from config.toml and INVLEDGER_* environment variables.`)
}
