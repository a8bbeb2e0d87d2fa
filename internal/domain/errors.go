// Package domain holds the dataset model, quote projection and the error
// kinds the HTTP layer maps onto responses. Nothing here knows about HTTP.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Each typed error below unwraps to one.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("unavailable")
	ErrLoadFailure       = errors.New("dataset load failed")
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrProjectionFailure = errors.New("projection failed")
)

// NotFoundError is an upstream 404, usually a dataset URL that moved.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// UnavailableError is an upstream that refused, failed or timed out.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// LoadError describes why a dataset source failed.
// Cause, when set, is reachable through errors.Is/As alongside ErrLoadFailure.
type LoadError struct {
	Source string
	Reason string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("loading dataset from %s: %s: %v", e.Source, e.Reason, e.Cause)
	}

	return fmt.Sprintf("loading dataset from %s: %s", e.Source, e.Reason)
}

// Unwrap returns both the sentinel and the cause.
func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrLoadFailure}
	}

	return []error{ErrLoadFailure, e.Cause}
}

// NewLoadError names the failing source; cause may be nil.
func NewLoadError(source, reason string, cause error) error {
	return &LoadError{Source: source, Reason: reason, Cause: cause}
}

// EmptyDatasetError is returned when a random quote is requested from zero records.
// It carries the metadata needed for the diagnostic error response.
type EmptyDatasetError struct {
	Version string
	Update  string
}

func (e *EmptyDatasetError) Error() string {
	return "dataset contains no sentences"
}

func (e *EmptyDatasetError) Unwrap() error {
	return ErrEmptyDataset
}

func NewEmptyDatasetError(version, update string) error {
	return &EmptyDatasetError{Version: version, Update: update}
}

// ProjectionError describes a record that could not be turned into a response.
type ProjectionError struct {
	Index  int
	Reason string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projecting record %d: %s", e.Index, e.Reason)
}

func (e *ProjectionError) Unwrap() error {
	return ErrProjectionFailure
}

func NewProjectionError(index int, reason string) error {
	return &ProjectionError{Index: index, Reason: reason}
}

// IsNotFound and the helpers below are errors.Is shorthands.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrLoadFailure)
}

func IsEmptyDataset(err error) bool {
	return errors.Is(err, ErrEmptyDataset)
}

func IsProjectionFailure(err error) bool {
	return errors.Is(err, ErrProjectionFailure)
}
