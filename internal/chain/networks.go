package chain

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// Registry is the static lookup of supported networks.
type Registry struct {
	networks map[string]entity.Network
}

func NewRegistry(networks map[string]entity.Network) *Registry {
	copied := make(map[string]entity.Network, len(networks))
	for key, network := range networks {
		network.Key = key
		copied[key] = network
	}

	return &Registry{networks: copied}
}

func (that *Registry) Get(key string) (entity.Network, error) {
	network, ok := that.networks[key]
	if !ok {
		return entity.Network{}, fmt.Errorf("%w: %s", apperror.ErrUnknownNetwork, key)
	}

	return network, nil
}

// List returns the networks ordered by key.
func (that *Registry) List() []entity.Network {
	list := make([]entity.Network, 0, len(that.networks))
	for _, network := range that.networks {
		list = append(list, network)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Key < list[j].Key
	})

	return list
}
