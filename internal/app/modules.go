package app

import (
	"github.com/vk/composekit/internal/registry"
	"github.com/vk/composekit/modules/addons"
	"github.com/vk/composekit/modules/print"
	"github.com/vk/composekit/modules/rules"
	"github.com/vk/composekit/modules/socketio"
)

// coreModules is the default module set registered when the caller does not
// supply its own.
var coreModules = []registry.Module{
	&print.Module{},
	&rules.Module{},
	&addons.Module{},
	&socketio.Module{},
}
