// Package modules defines the site module registry.
package modules

import module "github.com/lumenvpn/site/internal/services/site/module"

// Dependencies aliases the shared module dependencies type.
type Dependencies = module.Dependencies

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module
