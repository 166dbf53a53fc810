package api

import (
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/tasks"
)

type Handler struct {
	configs   map[string]*config.FeedConfig
	store     storage.Store
	scheduler tasks.TaskSchedulerInterface
}

func NewHandler(configs map[string]*config.FeedConfig, store storage.Store,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		configs:   configs,
		store:     store,
		scheduler: scheduler,
	}
}
