// Package domain contains the core domain model for cpstool.
//
// The domain does not depend on XML parsing, process execution, or the
// filesystem. Infra/adapters map into/from these types.
package domain
