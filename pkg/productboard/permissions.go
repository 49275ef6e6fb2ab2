package productboard

import (
	"errors"
	"fmt"
	"strings"
)

// AccessLevel is an ordinal privilege tier. Comparisons are always ordinal,
// never string-based: a higher level satisfies any lower requirement.
type AccessLevel int

// Access levels, least to most privileged.
const (
	AccessLevelRead AccessLevel = iota
	AccessLevelWrite
	AccessLevelDelete
	AccessLevelAdmin
)

// ErrUnknownAccessLevel is returned when parsing an unrecognized level name.
var ErrUnknownAccessLevel = errors.New("unknown access level")

// String implements fmt.Stringer.
func (l AccessLevel) String() string {
	switch l {
	case AccessLevelRead:
		return "read"
	case AccessLevelWrite:
		return "write"
	case AccessLevelDelete:
		return "delete"
	case AccessLevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("access_level(%d)", int(l))
	}
}

// AtLeast reports whether the level satisfies the given minimum.
func (l AccessLevel) AtLeast(minimum AccessLevel) bool {
	return l >= minimum
}

// ParseAccessLevel maps a level name to its ordinal value.
func ParseAccessLevel(name string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "read":
		return AccessLevelRead, nil
	case "write":
		return AccessLevelWrite, nil
	case "delete":
		return AccessLevelDelete, nil
	case "admin":
		return AccessLevelAdmin, nil
	default:
		return AccessLevelRead, fmt.Errorf("%w: %q", ErrUnknownAccessLevel, name)
	}
}

// Permission is an opaque capability tag, e.g. "features:read".
type Permission string

// OperationPermissionMetadata declares what an operation demands of its
// caller. Attached at registration time and immutable afterwards.
type OperationPermissionMetadata struct {
	RequiredPermissions []Permission `json:"required_permissions" yaml:"required_permissions"`
	MinimumAccessLevel  AccessLevel  `json:"minimum_access_level" yaml:"minimum_access_level"`
}

// CallerPermissions describes the caller on whose behalf an operation runs.
// Supplied per call by the hosting environment; never persisted here.
type CallerPermissions struct {
	AccessLevel AccessLevel  `json:"access_level" yaml:"access_level"`
	Permissions []Permission `json:"permissions"  yaml:"permissions"`
}

// Has reports whether the caller holds the given permission.
func (c *CallerPermissions) Has(permission Permission) bool {
	for _, held := range c.Permissions {
		if held == permission {
			return true
		}
	}

	return false
}

// IsAdmissible reports whether the caller may invoke an operation with the
// given metadata: the access-level ordinal check and the permission-subset
// check must both pass.
func IsAdmissible(caller *CallerPermissions, metadata *OperationPermissionMetadata) bool {
	return CheckPermissions("", caller, metadata) == nil
}

// MissingPermissions returns the required permissions the caller lacks, in
// declaration order, independent of the access-level axis. Empty means the
// permission-subset check passes on its own.
func MissingPermissions(caller *CallerPermissions, metadata *OperationPermissionMetadata) []Permission {
	if metadata == nil {
		return nil
	}

	var missing []Permission

	seen := make(map[Permission]bool, len(metadata.RequiredPermissions))

	for _, required := range metadata.RequiredPermissions {
		if seen[required] {
			continue
		}

		seen[required] = true

		if caller == nil || !caller.Has(required) {
			missing = append(missing, required)
		}
	}

	return missing
}

// PermissionError reports a denied invocation. The access-level shortfall
// and the missing permissions are carried separately so a caller can tell
// "wrong tier" from "missing capability".
type PermissionError struct {
	Operation     string
	RequiredLevel AccessLevel
	CallerLevel   AccessLevel
	Missing       []Permission
}

// Error implements the error interface.
func (e *PermissionError) Error() string {
	var parts []string

	if e.LevelShortfall() {
		parts = append(parts, fmt.Sprintf("requires %s access, caller has %s", e.RequiredLevel, e.CallerLevel))
	}

	if len(e.Missing) > 0 {
		names := make([]string, 0, len(e.Missing))
		for _, permission := range e.Missing {
			names = append(names, string(permission))
		}

		parts = append(parts, "missing permissions: "+strings.Join(names, ", "))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("operation %q denied", e.Operation)
	}

	return fmt.Sprintf("operation %q denied: %s", e.Operation, strings.Join(parts, "; "))
}

// LevelShortfall reports whether the access-level axis failed.
func (e *PermissionError) LevelShortfall() bool {
	return e.CallerLevel < e.RequiredLevel
}

// CheckPermissions returns nil when the caller is admissible, and a
// *PermissionError describing both axes when it is not. Permission denial is
// never retryable and never conflated with a service-side error.
func CheckPermissions(operation string, caller *CallerPermissions, metadata *OperationPermissionMetadata) error {
	if metadata == nil {
		return nil
	}

	callerLevel := AccessLevelRead
	if caller != nil {
		callerLevel = caller.AccessLevel
	}

	missing := MissingPermissions(caller, metadata)

	if callerLevel.AtLeast(metadata.MinimumAccessLevel) && len(missing) == 0 {
		return nil
	}

	return &PermissionError{
		Operation:     operation,
		RequiredLevel: metadata.MinimumAccessLevel,
		CallerLevel:   callerLevel,
		Missing:       missing,
	}
}

// IsPermissionDenied checks if the error reports a denied invocation.
func IsPermissionDenied(err error) bool {
	permErr := &PermissionError{}

	return errors.As(err, &permErr)
}
