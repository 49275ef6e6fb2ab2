package productboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PageInfo is the pagination block of a list response. Cursor is an opaque
// continuation token; some endpoints omit it and paginate by offset instead.
type PageInfo struct {
	Cursor  string `json:"cursor,omitempty" yaml:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"          yaml:"hasMore"`
}

// Page is the raw wire shape of one list response: either
// {"data": [...], "pagination": {...}} or a bare JSON array.
type Page struct {
	Data       []json.RawMessage `json:"data"                 yaml:"data"`
	Pagination *PageInfo         `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

// UnmarshalJSON accepts both the enveloped and the bare-array shape.
func (p *Page) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		p.Pagination = nil

		err := json.Unmarshal(trimmed, &p.Data)
		if err != nil {
			return fmt.Errorf("decoding bare list: %w", err)
		}

		return nil
	}

	type pageAlias Page

	var decoded pageAlias

	err := json.Unmarshal(trimmed, &decoded)
	if err != nil {
		return fmt.Errorf("decoding list envelope: %w", err)
	}

	*p = Page(decoded)

	return nil
}

// HasMore reports whether the service promised further pages.
func (p *Page) HasMore() bool {
	return p.Pagination != nil && p.Pagination.HasMore
}

// Cursor returns the continuation token, empty when absent.
func (p *Page) Cursor() string {
	if p.Pagination == nil {
		return ""
	}

	return p.Pagination.Cursor
}

// ListResponse pairs decoded items with the page info they arrived with.
type ListResponse[T any] struct {
	Data       []T       `json:"data"                 yaml:"data"`
	Pagination *PageInfo `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

// DecodeList decodes a raw page into a typed list response.
func DecodeList[T any](page *Page) (*ListResponse[T], error) {
	items, err := UnmarshalItems[T](page.Data)
	if err != nil {
		return nil, err
	}

	return &ListResponse[T]{Data: items, Pagination: page.Pagination}, nil
}

// UnmarshalItems decodes each raw item into T, preserving order.
func UnmarshalItems[T any](raw []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raw))

	for index, message := range raw {
		var item T

		err := json.Unmarshal(message, &item)
		if err != nil {
			return nil, fmt.Errorf("decoding item %d: %w", index, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// DeleteResult is the synthetic success marker for DELETE calls; the
// service returns no body for deletions.
type DeleteResult struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Deleted bool   `json:"deleted"      yaml:"deleted"`
}

// IDRef points at another resource by identifier.
type IDRef struct {
	ID string `json:"id" yaml:"id"`
}

// EmailRef points at a user by email address.
type EmailRef struct {
	Email string `json:"email" yaml:"email"`
}

// StatusRef names a feature status.
type StatusRef struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Parent locates a feature under a component, another feature, or a product.
// Exactly one field is set.
type Parent struct {
	Component *IDRef `json:"component,omitempty" yaml:"component,omitempty"`
	Feature   *IDRef `json:"feature,omitempty"   yaml:"feature,omitempty"`
	Product   *IDRef `json:"product,omitempty"   yaml:"product,omitempty"`
}

// Timeframe bounds a feature, release, or objective in time.
type Timeframe struct {
	StartDate   string `json:"startDate,omitempty"   yaml:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"     yaml:"endDate,omitempty"`
	Granularity string `json:"granularity,omitempty" yaml:"granularity,omitempty"`
}

// Links carries the navigation links attached to a resource.
type Links struct {
	Self string `json:"self,omitempty" yaml:"self,omitempty"`
	HTML string `json:"html,omitempty" yaml:"html,omitempty"`
}

// Feature is a unit of product work.
type Feature struct {
	ID          string     `json:"id"                    yaml:"id"`
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string     `json:"type,omitempty"        yaml:"type,omitempty"`
	Status      *StatusRef `json:"status,omitempty"      yaml:"status,omitempty"`
	Parent      *Parent    `json:"parent,omitempty"      yaml:"parent,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
	Archived    bool       `json:"archived"              yaml:"archived"`
	Links       *Links     `json:"links,omitempty"       yaml:"links,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"             yaml:"updatedAt"`
}

// FeatureCreateRequest creates a feature.
type FeatureCreateRequest struct {
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      *StatusRef `json:"status,omitempty"      yaml:"status,omitempty"`
	Parent      *Parent    `json:"parent,omitempty"      yaml:"parent,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
}

// FeatureUpdateRequest patches a feature. Nil fields are left untouched.
type FeatureUpdateRequest struct {
	Name        *string    `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      *StatusRef `json:"status,omitempty"      yaml:"status,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
	Archived    *bool      `json:"archived,omitempty"    yaml:"archived,omitempty"`
}

// Component groups features within a product.
type Component struct {
	ID          string    `json:"id"                    yaml:"id"`
	Name        string    `json:"name"                  yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Parent      *Parent   `json:"parent,omitempty"      yaml:"parent,omitempty"`
	Links       *Links    `json:"links,omitempty"       yaml:"links,omitempty"`
	CreatedAt   time.Time `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"             yaml:"updatedAt"`
}

// ComponentCreateRequest creates a component.
type ComponentCreateRequest struct {
	Name        string  `json:"name"                  yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Parent      *Parent `json:"parent,omitempty"      yaml:"parent,omitempty"`
}

// ComponentUpdateRequest patches a component.
type ComponentUpdateRequest struct {
	Name        *string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Product is a top-level hierarchy entity.
type Product struct {
	ID          string    `json:"id"                    yaml:"id"`
	Name        string    `json:"name"                  yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Links       *Links    `json:"links,omitempty"       yaml:"links,omitempty"`
	CreatedAt   time.Time `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"             yaml:"updatedAt"`
}

// ProductUpdateRequest patches a product.
type ProductUpdateRequest struct {
	Name        *string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Release is a shippable milestone within a release group.
type Release struct {
	ID           string     `json:"id"                     yaml:"id"`
	Name         string     `json:"name"                   yaml:"name"`
	Description  string     `json:"description,omitempty"  yaml:"description,omitempty"`
	State        string     `json:"state,omitempty"        yaml:"state,omitempty"`
	ReleaseGroup *IDRef     `json:"releaseGroup,omitempty" yaml:"releaseGroup,omitempty"`
	Timeframe    *Timeframe `json:"timeframe,omitempty"    yaml:"timeframe,omitempty"`
	Links        *Links     `json:"links,omitempty"        yaml:"links,omitempty"`
}

// ReleaseCreateRequest creates a release.
type ReleaseCreateRequest struct {
	Name         string     `json:"name"                   yaml:"name"`
	Description  string     `json:"description,omitempty"  yaml:"description,omitempty"`
	State        string     `json:"state,omitempty"        yaml:"state,omitempty"`
	ReleaseGroup *IDRef     `json:"releaseGroup,omitempty" yaml:"releaseGroup,omitempty"`
	Timeframe    *Timeframe `json:"timeframe,omitempty"    yaml:"timeframe,omitempty"`
}

// ReleaseUpdateRequest patches a release.
type ReleaseUpdateRequest struct {
	Name        *string    `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	State       *string    `json:"state,omitempty"       yaml:"state,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
}

// ReleaseGroup collects releases on one timeline.
type ReleaseGroup struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsDefault   bool   `json:"isDefault"             yaml:"isDefault"`
}

// FeatureReleaseAssignment ties a feature to a release.
type FeatureReleaseAssignment struct {
	Feature    IDRef `json:"feature"    yaml:"feature"`
	Release    IDRef `json:"release"    yaml:"release"`
	IsAssigned bool  `json:"isAssigned" yaml:"isAssigned"`
}

// FeatureReleaseAssignmentUpdateRequest toggles an assignment.
type FeatureReleaseAssignmentUpdateRequest struct {
	IsAssigned bool `json:"isAssigned" yaml:"isAssigned"`
}

// Note is a piece of raw customer feedback.
type Note struct {
	ID         string    `json:"id"                   yaml:"id"`
	Title      string    `json:"title"                yaml:"title"`
	Content    string    `json:"content,omitempty"    yaml:"content,omitempty"`
	DisplayURL string    `json:"displayUrl,omitempty" yaml:"displayUrl,omitempty"`
	Company    *IDRef    `json:"company,omitempty"    yaml:"company,omitempty"`
	User       *IDRef    `json:"user,omitempty"       yaml:"user,omitempty"`
	Tags       []string  `json:"tags,omitempty"       yaml:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt"            yaml:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"            yaml:"updatedAt"`
}

// NoteCreateRequest creates a note.
type NoteCreateRequest struct {
	Title          string    `json:"title"                    yaml:"title"`
	Content        string    `json:"content"                  yaml:"content"`
	Tags           []string  `json:"tags,omitempty"           yaml:"tags,omitempty"`
	Company        *IDRef    `json:"company,omitempty"        yaml:"company,omitempty"`
	User           *EmailRef `json:"user,omitempty"           yaml:"user,omitempty"`
	DisplayURL     string    `json:"displayUrl,omitempty"     yaml:"displayUrl,omitempty"`
	SourceOrigin   string    `json:"sourceOrigin,omitempty"   yaml:"sourceOrigin,omitempty"`
	SourceRecordID string    `json:"sourceRecordId,omitempty" yaml:"sourceRecordId,omitempty"`
}

// NoteUpdateRequest patches a note.
type NoteUpdateRequest struct {
	Title   *string  `json:"title,omitempty"   yaml:"title,omitempty"`
	Content *string  `json:"content,omitempty" yaml:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"    yaml:"tags,omitempty"`
}

// Company is a customer organization attached to notes and users.
type Company struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Domain      string `json:"domain,omitempty"      yaml:"domain,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CompanyCreateRequest creates a company.
type CompanyCreateRequest struct {
	Name        string `json:"name"                  yaml:"name"`
	Domain      string `json:"domain,omitempty"      yaml:"domain,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// User is a feedback-submitting end user.
type User struct {
	ID    string `json:"id"              yaml:"id"`
	Email string `json:"email"           yaml:"email"`
	Name  string `json:"name,omitempty"  yaml:"name,omitempty"`
	Role  string `json:"role,omitempty"  yaml:"role,omitempty"`
}

// UserCreateRequest creates a user.
type UserCreateRequest struct {
	Email string `json:"email"          yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Objective is a strategic goal features roll up to.
type Objective struct {
	ID          string     `json:"id"                    yaml:"id"`
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	State       string     `json:"state,omitempty"       yaml:"state,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
	Links       *Links     `json:"links,omitempty"       yaml:"links,omitempty"`
}

// ObjectiveCreateRequest creates an objective.
type ObjectiveCreateRequest struct {
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
}

// ObjectiveUpdateRequest patches an objective.
type ObjectiveUpdateRequest struct {
	Name        *string    `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	State       *string    `json:"state,omitempty"       yaml:"state,omitempty"`
	Owner       *EmailRef  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"   yaml:"timeframe,omitempty"`
}

// KeyResult measures progress against an objective.
type KeyResult struct {
	ID           string   `json:"id"                     yaml:"id"`
	Name         string   `json:"name"                   yaml:"name"`
	Type         string   `json:"type,omitempty"         yaml:"type,omitempty"`
	Objective    *IDRef   `json:"objective,omitempty"    yaml:"objective,omitempty"`
	StartValue   *float64 `json:"startValue,omitempty"   yaml:"startValue,omitempty"`
	CurrentValue *float64 `json:"currentValue,omitempty" yaml:"currentValue,omitempty"`
	TargetValue  *float64 `json:"targetValue,omitempty"  yaml:"targetValue,omitempty"`
}

// KeyResultUpdateRequest patches a key result.
type KeyResultUpdateRequest struct {
	Name         *string  `json:"name,omitempty"         yaml:"name,omitempty"`
	CurrentValue *float64 `json:"currentValue,omitempty" yaml:"currentValue,omitempty"`
	TargetValue  *float64 `json:"targetValue,omitempty"  yaml:"targetValue,omitempty"`
}

// CustomField is a user-defined field attached to hierarchy entities.
type CustomField struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// CustomFieldValue is one field's value on one hierarchy entity.
type CustomFieldValue struct {
	CustomField     IDRef       `json:"customField"     yaml:"customField"`
	HierarchyEntity IDRef       `json:"hierarchyEntity" yaml:"hierarchyEntity"`
	Value           interface{} `json:"value"           yaml:"value"`
}

// CustomFieldValueSetRequest sets one field's value on one hierarchy entity.
type CustomFieldValueSetRequest struct {
	Value interface{} `json:"value" yaml:"value"`
}

// Status is one column of the feature workflow.
type Status struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
