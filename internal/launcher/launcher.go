package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/metrics"
	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/repo"
)

// Status 被监管进程的状态
type Status string

const (
	StatusIdle     Status = "idle"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
	StatusError    Status = "error"
)

// DefaultExecutable 外部交易程序
const DefaultExecutable = "freqtrade"

// Notifier 进程事件通知，telegram 未配置时为 nil
type Notifier interface {
	Notify(msg string) error
}

// Options 策略进程启动参数
type Options struct {
	Executable   string // 为空时使用 DefaultExecutable
	Strategy     string
	ConfigPath   string        // 可选的 --config 覆盖，为空时不传递
	GraceTimeout time.Duration // SIGTERM 后的等待时间，超时则强杀
}

// CommandLine 组装完整命令行
func (o Options) CommandLine() []string {
	exe := o.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	args := []string{exe, "trade", "--strategy", o.Strategy}
	if o.ConfigPath != "" {
		args = append(args, "--config", o.ConfigPath)
	}
	return args
}

// Supervisor 持有后台策略进程的句柄
// 与其前身（shell 的 & 后台启动）不同，进程的生命周期被显式管理：
// 启动记录入库、退出被观察、父进程退出时子进程被终止
type Supervisor struct {
	logger   *zap.Logger
	opts     Options
	runRepo  *repo.StrategyRunRepo
	notifier Notifier

	mu          sync.RWMutex
	cmd         *exec.Cmd
	runID       string
	status      Status
	startedAt   time.Time
	exitCode    *int
	stopRequest bool
	done        chan struct{}
}

// Snapshot 供状态接口使用的只读视图
type Snapshot struct {
	Status    Status     `json:"status"`
	RunID     string     `json:"run_id,omitempty"`
	PID       int        `json:"pid,omitempty"`
	Command   []string   `json:"command,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	ExitCode  *int       `json:"exit_code,omitempty"`
}

// NewSupervisor 创建策略进程监管器，runRepo 和 notifier 均可为 nil
func NewSupervisor(logger *zap.Logger, opts Options, runRepo *repo.StrategyRunRepo, notifier Notifier) *Supervisor {
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable
	}
	if opts.GraceTimeout <= 0 {
		opts.GraceTimeout = 10 * time.Second
	}
	return &Supervisor{
		logger:  logger,
		opts:    opts,
		runRepo: runRepo,
		notifier: notifier,
		status:  StatusIdle,
	}
}

// Start 启动后台策略进程
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusStarting || s.status == StatusRunning {
		return fmt.Errorf("strategy process already running (pid %d)", s.cmd.Process.Pid)
	}

	cmdline := s.opts.CommandLine()
	cmd := exec.Command(cmdline[0], cmdline[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	s.status = StatusStarting
	if err := cmd.Start(); err != nil {
		s.status = StatusError
		return fmt.Errorf("failed to start strategy process: %w", err)
	}

	s.cmd = cmd
	s.runID = ulid.Make().String()
	s.startedAt = time.Now()
	s.exitCode = nil
	s.stopRequest = false
	s.done = make(chan struct{})
	s.status = StatusRunning

	metrics.StrategyStartsTotal.Inc()
	metrics.StrategyUp.Set(1)

	s.logger.Info("strategy process started",
		zap.String("run_id", s.runID),
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("command", cmdline))

	if s.runRepo != nil {
		run := models.StrategyRun{
			ID:        s.runID,
			Strategy:  s.opts.Strategy,
			PID:       cmd.Process.Pid,
			Args:      cmdline,
			Status:    models.RunStatusRunning,
			StartedAt: s.startedAt,
		}
		if err := s.runRepo.Create(ctx, &run); err != nil {
			s.logger.Error("failed to record strategy run", zap.Error(err))
		}
	}

	go s.watch()
	return nil
}

// watch 观察进程退出并收尾
func (s *Supervisor) watch() {
	err := s.cmd.Wait()

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	s.mu.Lock()
	s.exitCode = &code
	requested := s.stopRequest
	runID := s.runID
	if requested || code == 0 {
		s.status = StatusStopped
	} else {
		s.status = StatusError
	}
	status := s.status
	close(s.done)
	s.mu.Unlock()

	metrics.StrategyUp.Set(0)
	metrics.StrategyExitsTotal.WithLabelValues(string(status)).Inc()

	s.logger.Info("strategy process exited",
		zap.String("run_id", runID),
		zap.Int("exit_code", code),
		zap.Bool("requested", requested))

	if s.runRepo != nil {
		runStatus := models.RunStatusStopped
		if status == StatusError {
			runStatus = models.RunStatusError
		}
		if err := s.runRepo.MarkExited(context.Background(), runID, runStatus, code, time.Now()); err != nil {
			s.logger.Error("failed to mark strategy run exited", zap.Error(err))
		}
	}

	if !requested && s.notifier != nil {
		msg := fmt.Sprintf("⚠️ 策略进程意外退出，策略 %s，退出码 %d", s.opts.Strategy, code)
		if err := s.notifier.Notify(msg); err != nil {
			s.logger.Error("failed to send exit notification", zap.Error(err))
		}
	}
}

// Stop 终止后台进程，先 SIGTERM，超时后强杀
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return nil
	}
	s.stopRequest = true
	cmd := s.cmd
	done := s.done
	s.mu.Unlock()

	s.logger.Info("stopping strategy process", zap.Int("pid", cmd.Process.Pid))

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal strategy process: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-time.After(s.opts.GraceTimeout):
		s.logger.Warn("strategy process did not exit in time, killing",
			zap.Int("pid", cmd.Process.Pid))
		if err := cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill strategy process: %w", err)
		}
		<-done
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status 当前状态快照
func (s *Supervisor) Status() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Status:   s.status,
		RunID:    s.runID,
		ExitCode: s.exitCode,
	}
	if s.cmd != nil && s.cmd.Process != nil {
		snap.PID = s.cmd.Process.Pid
		snap.Command = s.opts.CommandLine()
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		snap.StartedAt = &t
	}
	return snap
}

// RunForeground 前台运行外部程序，继承标准流，返回其退出码
// 本进程的退出码应当与子进程保持一致
func RunForeground(ctx context.Context, logger *zap.Logger, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info("running foreground process",
		zap.String("executable", name),
		zap.Strings("args", args))

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
