package entity

import (
	"fmt"
	"time"
)

type Condition string

const (
	ConditionEq   Condition = "eq"
	ConditionNeq  Condition = "neq"
	ConditionTo   Condition = "to"
	ConditionFrom Condition = "from"
	ConditionIn   Condition = "in"
)

// Filter is a single field predicate.
type Filter struct {
	Field     string      `json:"field"`
	Condition Condition   `json:"condition"`
	Value     interface{} `json:"value"`
}

// FilterGroup matches when any of its filters matches.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// SearchCriteria matches when every filter group matches. PageSize 0 means no limit;
// Offset skips that many matches in store order.
type SearchCriteria struct {
	FilterGroups []FilterGroup `json:"filter_groups"`
	PageSize     int64         `json:"page_size"`
	Offset       int64         `json:"offset"`
}

func (c *SearchCriteria) AddGroup(filters ...Filter) *SearchCriteria {
	c.FilterGroups = append(c.FilterGroups, FilterGroup{Filters: filters})
	return c
}

// Matches evaluates the criteria against an order; used by stores without a query language.
func (c *SearchCriteria) Matches(order *Order) (bool, error) {
	for _, group := range c.FilterGroups {
		matched := false
		for _, filter := range group.Filters {
			ok, err := filter.Matches(order)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func (f *Filter) Matches(order *Order) (bool, error) {
	switch f.Field {
	case "status":
		return compareString(order.Status, f)
	case "state":
		return compareString(order.State, f)
	case "store_id":
		return compareString(order.StoreId, f)
	case "increment_id":
		return compareString(order.IncrementId, f)
	case "updated_at":
		return compareTime(order.UpdatedAt, f)
	case "created_at":
		return compareTime(order.CreatedAt, f)
	}
	return false, fmt.Errorf("unsupported filter field: %s", f.Field)
}

func compareString(value string, f *Filter) (bool, error) {
	if f.Condition == ConditionIn {
		values, ok := f.Value.([]string)
		if !ok {
			return false, fmt.Errorf("filter %s: 'in' expects []string", f.Field)
		}
		for _, v := range values {
			if v == value {
				return true, nil
			}
		}
		return false, nil
	}
	expected, ok := f.Value.(string)
	if !ok {
		return false, fmt.Errorf("filter %s: expected string value", f.Field)
	}
	switch f.Condition {
	case ConditionEq:
		return value == expected, nil
	case ConditionNeq:
		return value != expected, nil
	case ConditionTo:
		return value <= expected, nil
	case ConditionFrom:
		return value >= expected, nil
	}
	return false, fmt.Errorf("filter %s: unsupported condition %s", f.Field, f.Condition)
}

func compareTime(value time.Time, f *Filter) (bool, error) {
	expected, ok := f.Value.(time.Time)
	if !ok {
		return false, fmt.Errorf("filter %s: expected time value", f.Field)
	}
	switch f.Condition {
	case ConditionEq:
		return value.Equal(expected), nil
	case ConditionNeq:
		return !value.Equal(expected), nil
	case ConditionTo:
		return !value.After(expected), nil
	case ConditionFrom:
		return !value.Before(expected), nil
	}
	return false, fmt.Errorf("filter %s: unsupported condition %s", f.Field, f.Condition)
}
