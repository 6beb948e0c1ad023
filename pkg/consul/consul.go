// Package consul registers the service with a Consul agent so the gateway
// can discover it, and resolves peer service addresses.
package consul

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

type Client struct {
	agent   *api.Agent
	catalog *api.Catalog
}

func New(address string) (*Client, error) {
	c, err := api.NewClient(&api.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("consul: new client: %w", err)
	}

	return &Client{agent: c.Agent(), catalog: c.Catalog()}, nil
}

// Service describes one registration. HealthURL is polled by the agent at
// Interval; instances failing the check for DeregisterAfter are removed.
type Service struct {
	Name            string
	Address         string
	Port            int
	HealthURL       string
	Interval        string
	DeregisterAfter string
}

// Register registers the service and returns its registration ID, used
// later for deregistration on shutdown.
func (c *Client) Register(svc Service) (string, error) {
	id := fmt.Sprintf("%s-%s-%d", svc.Name, svc.Address, svc.Port)

	reg := &api.AgentServiceRegistration{
		ID:      id,
		Name:    svc.Name,
		Address: svc.Address,
		Port:    svc.Port,
		Check: &api.AgentServiceCheck{
			HTTP:                           svc.HealthURL,
			Interval:                       svc.Interval,
			DeregisterCriticalServiceAfter: svc.DeregisterAfter,
		},
	}

	if err := c.agent.ServiceRegister(reg); err != nil {
		return "", fmt.Errorf("consul: register %s: %w", svc.Name, err)
	}

	return id, nil
}

func (c *Client) Deregister(serviceID string) error {
	if err := c.agent.ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("consul: deregister %s: %w", serviceID, err)
	}

	return nil
}

// Lookup resolves the address of the first known instance of a service.
func (c *Client) Lookup(serviceName string) (string, error) {
	services, _, err := c.catalog.Service(serviceName, "", nil)
	if err != nil {
		return "", fmt.Errorf("consul: lookup %s: %w", serviceName, err)
	}

	if len(services) == 0 {
		return "", fmt.Errorf("consul: no instances of %s", serviceName)
	}

	svc := services[0]

	return fmt.Sprintf("http://%s:%d", svc.ServiceAddress, svc.ServicePort), nil
}
