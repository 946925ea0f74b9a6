package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"go.uber.org/multierr"
)

// ChannelFactory builds a delivery channel from the service configuration.
type ChannelFactory func(cfg *configs.Config) (channel.Channel, error)

var (
	channelRegistry = make(map[string]ChannelFactory)
	registryMutex   sync.RWMutex
)

// RegisterChannelFactory registers factory under name. Channel packages call
// it from init.
func RegisterChannelFactory(name string, factory ChannelFactory) error {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := channelRegistry[name]; exists {
		return fmt.Errorf("channel factory already registered: %s", name)
	}
	channelRegistry[name] = factory
	return nil
}

// GetChannelFactory retrieves a channel factory by name.
func GetChannelFactory(name string) (ChannelFactory, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factory, exists := channelRegistry[name]
	if !exists {
		return nil, fmt.Errorf("no channel factory registered for name: %s", name)
	}
	return factory, nil
}

// Names lists the registered channel names in sorted order.
func Names() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	names := make([]string, 0, len(channelRegistry))
	for name := range channelRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates every channel in cfg.EnabledChannels. Channels that fail
// are left out of the result and their errors are combined in err.
func Build(cfg *configs.Config) (map[string]channel.Channel, error) {
	channels := make(map[string]channel.Channel, len(cfg.EnabledChannels))
	var err error
	for _, name := range cfg.EnabledChannels {
		factory, getErr := GetChannelFactory(name)
		if getErr != nil {
			err = multierr.Append(err, getErr)
			continue
		}
		ch, buildErr := factory(cfg)
		if buildErr != nil {
			err = multierr.Append(err, fmt.Errorf("channel %s: %w", name, buildErr))
			continue
		}
		channels[name] = ch
	}
	return channels, err
}
