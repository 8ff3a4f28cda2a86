package scheduler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"FinCharts/internal/config"
	"FinCharts/internal/generator"
	"FinCharts/internal/model"
	"FinCharts/internal/notifier"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const helpText = "Available commands:\n" +
	"• /chart <months> <SYM1,SYM2,...> [field]\n" +
	"• /jobs\n" +
	"• /run <job>\n" +
	"Fields: Open, High, Low, Close, Adj Close"

// Sender delivers a text message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs configured chart jobs on cron and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Generator *generator.Generator
	Notifier  Sender // nil disables delivery
	Logger    *zap.Logger
	Ctx       context.Context

	jobs []config.Job
	now  func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, gen *generator.Generator, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Generator: gen,
		Notifier:  sender,
		Logger:    logger,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterJobs adds one cron entry per job.
func (s *Scheduler) RegisterJobs(jobs []config.Job) error {
	for _, job := range jobs {
		if _, err := s.Cron.AddFunc(job.Cron, func() { s.runJob(job) }); err != nil {
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
		s.jobs = append(s.jobs, job)
		s.Logger.Info("job registered", zap.String("job", job.Name), zap.String("cron", job.Cron))
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunAllNow executes every registered job immediately.
func (s *Scheduler) RunAllNow() {
	for _, job := range s.jobs {
		s.runJob(job)
	}
}

func (s *Scheduler) runJob(job config.Job) {
	s.Logger.Info("running job", zap.String("job", job.Name))
	s.trySend(s.generate(jobInput(job)))
}

func jobInput(job config.Job) model.FormInput {
	return model.FormInput{
		Months:  strconv.Itoa(job.Months),
		Symbols: strings.Join(job.Symbols, ","),
		Field:   job.Field,
	}
}

// generate runs one form submission and formats the outcome for chat.
func (s *Scheduler) generate(in model.FormInput) string {
	res, err := s.Generator.Submit(s.Ctx, in, s.now())
	status := generator.StatusMessage(res, err)
	if err != nil {
		s.Logger.Warn("generation failed", zap.String("symbols", in.Symbols), zap.Error(err))
		return notifier.FormatTelegramReport(status, "")
	}
	return notifier.FormatTelegramReport(status, res.Report)
}

// HandleCommand processes a user command and returns an HTML reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return html.EscapeString(helpText)
	}
	name, _, _ := strings.Cut(fields[0], "@")
	switch name {
	case "/chart":
		if len(fields) < 3 {
			return html.EscapeString("Usage: /chart <months> <SYM1,SYM2,...> [field]")
		}
		return s.generate(model.FormInput{
			Months:  fields[1],
			Symbols: fields[2],
			Field:   strings.Join(fields[3:], " "),
		})
	case "/jobs":
		if len(s.jobs) == 0 {
			return "No scheduled jobs."
		}
		var b strings.Builder
		b.WriteString("Scheduled jobs:\n")
		for _, j := range s.jobs {
			b.WriteString(fmt.Sprintf("• %s [%s] %dm %s\n", j.Name, j.Cron, j.Months, strings.Join(j.Symbols, ",")))
		}
		return html.EscapeString(strings.TrimRight(b.String(), "\n"))
	case "/run":
		if len(fields) < 2 {
			return html.EscapeString("Usage: /run <job>")
		}
		for _, j := range s.jobs {
			if j.Name == fields[1] {
				return s.generate(jobInput(j))
			}
		}
		return html.EscapeString(fmt.Sprintf("Unknown job %q.", fields[1]))
	default:
		return html.EscapeString(helpText)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
