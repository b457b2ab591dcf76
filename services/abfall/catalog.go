package abfall

import "fmt"

// ConflictError reports a service id registered twice with differing
// titles. Downstream consumers key on the id, so this is a data integrity
// violation rather than something to paper over.
type ConflictError struct {
	ID       string
	Existing string
	Got      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"service %q registered with conflicting titles: %q vs %q",
		e.ID, e.Existing, e.Got,
	)
}

// Catalog collects the services discovered during one run. It is owned by
// a single assembly pass and is not safe for concurrent writers.
type Catalog struct {
	order  []string
	titles map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{titles: map[string]string{}}
}

// Register inserts the service if unseen. Re-registering the same (id,
// title) pair is a no-op; a differing title returns a *ConflictError. The
// first seen title always wins, it is never overwritten.
func (c *Catalog) Register(id, title string) error {
	existing, ok := c.titles[id]
	if !ok {
		c.titles[id] = title
		c.order = append(c.order, id)
		return nil
	}
	if existing != title {
		return &ConflictError{ID: id, Existing: existing, Got: title}
	}
	return nil
}

// All returns the registered services in first-registration order.
func (c *Catalog) All() []Service {
	services := make([]Service, 0, len(c.order))
	for _, id := range c.order {
		services = append(services, Service{ID: id, Title: c.titles[id]})
	}
	return services
}
