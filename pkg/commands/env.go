package commands

import (
	"context"
	"strconv"
	"strings"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/store"
)

func loadStore() (*store.FileConfig, store.Persistence, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

func planService() (*app.Service, error) {
	cfg, p, err := loadStore()
	if err != nil {
		return nil, err
	}
	return &app.Service{
		Persistence: p,
		Outline: &outline.FileLoader{
			Path:        cfg.OutlinePath(),
			TitlePrefix: cfg.TitlePrefix,
		},
		Config: cfg,
	}, nil
}

func routineService() (*app.RoutineService, error) {
	_, p, err := loadStore()
	if err != nil {
		return nil, err
	}
	return &app.RoutineService{Persistence: p}, nil
}

func dayCompletions(toComplete string) []string {
	svc, err := planService()
	if err != nil {
		return nil
	}
	ws, err := svc.Load(context.Background())
	if err != nil {
		return nil
	}
	prefix := strings.ToLower(strings.Trim(toComplete, `"`))
	var days []string
	for _, label := range ws.Plan.Labels() {
		if strings.HasPrefix(strings.ToLower(label), prefix) {
			days = append(days, strconv.Quote(label))
		}
	}
	return days
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
