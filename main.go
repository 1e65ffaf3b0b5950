package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/airsafe-sim/task"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/feed"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
	"github.com/tsinghua-fib-lab/airsafe-sim/view"
)

var (
	// 模拟任务名，为空时随机生成
	job = flag.String("job", "", "the name of the simulation task (empty means random uuid)")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 监控指标监听地址，为空则不提供/metrics
	metricsAddr = flag.String("metrics", ":9100", "prometheus metrics listening address (empty means disabled)")
	// 终端渲染
	tui         = flag.Bool("tui", false, "render junctions and vehicles in the terminal")
	tuiInterval = flag.Duration("tui.interval", 100*time.Millisecond, "terminal refresh interval")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")
	logFile  = flag.String("log.file", "", "日志文件路径，为空时输出到标准错误（tui模式下默认airsafe.log）")

	log = logrus.WithField("module", "airsafe")
)

// loadConfig 读取配置文件或Base64编码的配置数据，均未指定时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Info("no config specified, use built-in defaults")
		return config.Default()
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

// serveMetrics 启动/metrics服务，返回关闭函数
func serveMetrics(addr string, registry *metrics.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infof("serve metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", lo.Keys(logLevels))
	}
	if *tui && *logFile == "" {
		*logFile = "airsafe.log"
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Panicf("open log file err: %v", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}
	if *job == "" {
		*job = uuid.NewString()
	}

	c := loadConfig()
	log.Infof("%+v", c)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	in, err := input.Init(ctx, c)
	if err != nil {
		log.Panicf("topology load err: %v", err)
	}

	registry := metrics.NewRegistry()
	if *metricsAddr != "" {
		shutdown := serveMetrics(*metricsAddr, registry)
		defer shutdown()
	}

	t := task.NewContext(*job, c, in, nil, registry)

	junctionIDs := lo.Map(in.Junctions, func(j input.Junction, _ int) string { return j.ID })
	f, err := feed.New(ctx, c, junctionIDs)
	if err != nil {
		log.Panicf("feed init err: %v", err)
	}
	defer f.Close(context.Background())
	go t.RunFeed(ctx, f, c.Feed.IntervalDuration(), c.Feed.TimeoutDuration())

	if *tui {
		go func() {
			if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("run err: %v", err)
			}
		}()
		p := tea.NewProgram(view.New(t, *tuiInterval), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Errorf("tui err: %v", err)
		}
		cancel()
		return
	}

	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Panicf("run err: %v", err)
	}
	log.Infof("job %s done", t.Job())
}
