package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

// CLI-приложение для офлайн-проверки запросов на рассылку.
// Валидные запросы печатаются в stdout (по одному JSON на строку), отчёт — в stderr.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads JSONL from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	smsMax := flag.Int("sms-max", validate.DefaultSmsMaxLength, "maximum SMS body length in characters")
	slack := flag.Duration("send-time-slack", validate.DefaultSendTimeSlack, "how far in the past requestedSendTime may be")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validator := validate.NewOrderValidator(
		validate.WithSmsMaxLength(*smsMax),
		validate.WithSendTimeSlack(*slack),
	)
	format := validate.InputFormat(*formatStr)

	var (
		report validate.Report
		err    error
	)
	start := time.Now()
	if *inputPath == "" {
		report, err = validate.ValidateReader(ctx, validator, os.Stdin, format, os.Stdout)
	} else {
		report, err = validate.ValidateFile(ctx, validator, *inputPath, format, os.Stdout)
	}

	for _, lineErr := range report.Invalid {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", lineErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, report)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation done in %s (%s)\n", time.Since(start).Round(time.Millisecond), report)
	if len(report.Invalid) > 0 {
		os.Exit(2)
	}
}
