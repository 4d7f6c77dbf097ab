package app

import (
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/modules/basic"
	"github.com/vk/gridflow/modules/textsummary"
)

// coreModules are the tool modules installed by default.
func coreModules() []registry.Module {
	return []registry.Module{
		textsummary.Module{},
		basic.Module{},
	}
}
