// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package mongoerr is the driver's error taxonomy: a single Error struct
// tagged with a Kind, carrying a server ErrorCode when Kind is Coded.
package mongoerr

import "fmt"

// ErrorCode is a server-assigned error code, as returned in a command
// reply's "code" field.
type ErrorCode int32

// The full set of server error codes this core's original implementation
// recognized, not just the handful the core itself inspects.
const (
	OK                             ErrorCode = 0
	InternalError                  ErrorCode = 1
	BadValue                       ErrorCode = 2
	ObsoleteDuplicateKey           ErrorCode = 3
	NoSuchKey                      ErrorCode = 4
	GraphContainsCycle             ErrorCode = 5
	HostUnreachable                ErrorCode = 6
	HostNotFound                   ErrorCode = 7
	UnknownError                   ErrorCode = 8
	FailedToParse                  ErrorCode = 9
	CannotMutateObject             ErrorCode = 10
	UserNotFound                   ErrorCode = 11
	UnsupportedFormat              ErrorCode = 12
	Unauthorized                   ErrorCode = 13
	TypeMismatch                   ErrorCode = 14
	Overflow                       ErrorCode = 15
	InvalidLength                  ErrorCode = 16
	ProtocolError                  ErrorCode = 17
	AuthenticationFailed           ErrorCode = 18
	CannotReuseObject              ErrorCode = 19
	IllegalOperation               ErrorCode = 20
	EmptyArrayOperation            ErrorCode = 21
	InvalidBSON                    ErrorCode = 22
	AlreadyInitialized             ErrorCode = 23
	LockTimeout                    ErrorCode = 24
	RemoteValidationError          ErrorCode = 25
	NamespaceNotFound              ErrorCode = 26
	IndexNotFound                  ErrorCode = 27
	PathNotViable                  ErrorCode = 28
	NonExistentPath                ErrorCode = 29
	InvalidPath                    ErrorCode = 30
	RoleNotFound                   ErrorCode = 31
	RolesNotRelated                ErrorCode = 32
	PrivilegeNotFound              ErrorCode = 33
	CannotBackfillArray            ErrorCode = 34
	UserModificationFailed         ErrorCode = 35
	RemoteChangeDetected           ErrorCode = 36
	FileRenameFailed               ErrorCode = 37
	FileNotOpen                    ErrorCode = 38
	FileStreamFailed               ErrorCode = 39
	ConflictingUpdateOperators     ErrorCode = 40
	FileAlreadyOpen                ErrorCode = 41
	LogWriteFailed                 ErrorCode = 42
	CursorNotFound                 ErrorCode = 43
	UserDataInconsistent           ErrorCode = 45
	LockBusy                       ErrorCode = 46
	NoMatchingDocument             ErrorCode = 47
	NamespaceExists                ErrorCode = 48
	InvalidRoleModification        ErrorCode = 49
	ExceededTimeLimit              ErrorCode = 50
	ManualInterventionRequired     ErrorCode = 51
	DollarPrefixedFieldName        ErrorCode = 52
	InvalidIDField                 ErrorCode = 53
	NotSingleValueField            ErrorCode = 54
	InvalidDBRef                   ErrorCode = 55
	EmptyFieldName                 ErrorCode = 56
	DottedFieldName                ErrorCode = 57
	RoleModificationFailed         ErrorCode = 58
	CommandNotFound                ErrorCode = 59
	DatabaseNotFound               ErrorCode = 60
	ShardKeyNotFound               ErrorCode = 61
	OplogOperationUnsupported      ErrorCode = 62
	StaleShardVersion              ErrorCode = 63
	WriteConcernFailed             ErrorCode = 64
	MultipleErrorsOccurred         ErrorCode = 65
	ImmutableField                 ErrorCode = 66
	CannotCreateIndex              ErrorCode = 67
	IndexAlreadyExists             ErrorCode = 68
	AuthSchemaIncompatible         ErrorCode = 69
	ShardNotFound                  ErrorCode = 70
	ReplicaSetNotFound             ErrorCode = 71
	InvalidOptions                 ErrorCode = 72
	InvalidNamespace               ErrorCode = 73
	NodeNotFound                   ErrorCode = 74
	WriteConcernLegacyOK           ErrorCode = 75
	NoReplicationEnabled           ErrorCode = 76
	OperationIncomplete            ErrorCode = 77
	CommandResultSchemaViolation   ErrorCode = 78
	UnknownReplWriteConcern        ErrorCode = 79
	RoleDataInconsistent           ErrorCode = 80
	NoWhereParseContext            ErrorCode = 81
	NoProgressMade                 ErrorCode = 82
	RemoteResultsUnavailable       ErrorCode = 83
	DuplicateKeyValue              ErrorCode = 84
	IndexOptionsConflict           ErrorCode = 85
	IndexKeySpecsConflict          ErrorCode = 86
	CannotSplit                    ErrorCode = 87
	SplitFailed                    ErrorCode = 88
	NetworkTimeout                 ErrorCode = 89
	CallbackCanceled               ErrorCode = 90
	ShutdownInProgress             ErrorCode = 91
	SecondaryAheadOfPrimary        ErrorCode = 92
	InvalidReplicaSetConfig        ErrorCode = 93
	NotYetInitialized              ErrorCode = 94
	NotSecondary                   ErrorCode = 95
	OperationFailed                ErrorCode = 96
	NoProjectionFound              ErrorCode = 97
	DBPathInUse                    ErrorCode = 98
	WriteConcernNotDefined         ErrorCode = 99
	CannotSatisfyWriteConcern      ErrorCode = 100
	OutdatedClient                 ErrorCode = 101
	IncompatibleAuditMetadata      ErrorCode = 102
	NewReplicaSetConfigIncompatible ErrorCode = 103
	NodeNotElectable               ErrorCode = 104
	IncompatibleShardingMetadata   ErrorCode = 105
	DistributedClockSkewed         ErrorCode = 106
	LockFailed                     ErrorCode = 107
	InconsistentReplicaSetNames    ErrorCode = 108
	ConfigurationInProgress        ErrorCode = 109
	CannotInitializeNodeWithData   ErrorCode = 110
	NotExactValueField             ErrorCode = 111
	WriteConflict                  ErrorCode = 112
	InitialSyncFailure             ErrorCode = 113
	InitialSyncOplogSourceMissing  ErrorCode = 114
	CommandNotSupported            ErrorCode = 115
	DocTooLargeForCapped           ErrorCode = 116
	ConflictingOperationInProgress ErrorCode = 117
	NamespaceNotSharded            ErrorCode = 118
	InvalidSyncSource              ErrorCode = 119
	OplogStartMissing              ErrorCode = 120
	DocumentValidationFailure      ErrorCode = 121
	ObsoleteReadAfterOptimeTimeout ErrorCode = 122
	NotAReplicaSet                 ErrorCode = 123
	IncompatibleElectionProtocol  ErrorCode = 124
	CommandFailed                  ErrorCode = 125
	RPCProtocolNegotiationFailed   ErrorCode = 126
	UnrecoverableRollbackError     ErrorCode = 127
	LockNotFound                   ErrorCode = 128
	LockStateChangeFailed          ErrorCode = 129
	SymbolNotFound                 ErrorCode = 130
	RLPInitializationFailed        ErrorCode = 131
	ConfigServersInconsistent      ErrorCode = 132
	FailedToSatisfyReadPreference  ErrorCode = 133
	ReadConcernMajorityNotAvailableYet ErrorCode = 134
	StaleTerm                      ErrorCode = 135
	CappedPositionLost             ErrorCode = 136
	IncompatibleShardingConfigVersion ErrorCode = 137
	RemoteOplogStale               ErrorCode = 138
	JSInterpreterFailure           ErrorCode = 139
	NotMaster                      ErrorCode = 10107
	DuplicateKey                   ErrorCode = 11000
	InterruptedAtShutdown          ErrorCode = 11600
	Interrupted                    ErrorCode = 11601
	BackgroundOperationInProgressForDatabase  ErrorCode = 12586
	BackgroundOperationInProgressForNamespace ErrorCode = 12587
	PrepareConfigsFailed           ErrorCode = 13104
	DatabaseDifferCase             ErrorCode = 13297
	ShardKeyTooBig                 ErrorCode = 13334
	SendStaleConfig                ErrorCode = 13388
	NotMasterNoSlaveOk             ErrorCode = 13435
	NotMasterOrSecondary           ErrorCode = 13436
	OutOfDiskSpace                 ErrorCode = 14031
	KeyTooLong                     ErrorCode = 17280
)

var codeNames = map[ErrorCode]string{
	OK: "OK", InternalError: "InternalError", BadValue: "BadValue",
	ObsoleteDuplicateKey: "OBSOLETE_DuplicateKey", NoSuchKey: "NoSuchKey",
	GraphContainsCycle: "GraphContainsCycle", HostUnreachable: "HostUnreachable",
	HostNotFound: "HostNotFound", UnknownError: "UnknownError",
	FailedToParse: "FailedToParse", CannotMutateObject: "CannotMutateObject",
	UserNotFound: "UserNotFound", UnsupportedFormat: "UnsupportedFormat",
	Unauthorized: "Unauthorized", TypeMismatch: "TypeMismatch",
	Overflow: "Overflow", InvalidLength: "InvalidLength",
	ProtocolError: "ProtocolError", AuthenticationFailed: "AuthenticationFailed",
	CannotReuseObject: "CannotReuseObject", IllegalOperation: "IllegalOperation",
	EmptyArrayOperation: "EmptyArrayOperation", InvalidBSON: "InvalidBSON",
	AlreadyInitialized: "AlreadyInitialized", LockTimeout: "LockTimeout",
	RemoteValidationError: "RemoteValidationError", NamespaceNotFound: "NamespaceNotFound",
	IndexNotFound: "IndexNotFound", PathNotViable: "PathNotViable",
	NonExistentPath: "NonExistentPath", InvalidPath: "InvalidPath",
	RoleNotFound: "RoleNotFound", RolesNotRelated: "RolesNotRelated",
	PrivilegeNotFound: "PrivilegeNotFound", CannotBackfillArray: "CannotBackfillArray",
	UserModificationFailed: "UserModificationFailed", RemoteChangeDetected: "RemoteChangeDetected",
	FileRenameFailed: "FileRenameFailed", FileNotOpen: "FileNotOpen",
	FileStreamFailed: "FileStreamFailed", ConflictingUpdateOperators: "ConflictingUpdateOperators",
	FileAlreadyOpen: "FileAlreadyOpen", LogWriteFailed: "LogWriteFailed",
	CursorNotFound: "CursorNotFound", UserDataInconsistent: "UserDataInconsistent",
	LockBusy: "LockBusy", NoMatchingDocument: "NoMatchingDocument",
	NamespaceExists: "NamespaceExists", InvalidRoleModification: "InvalidRoleModification",
	ExceededTimeLimit: "ExceededTimeLimit", ManualInterventionRequired: "ManualInterventionRequired",
	DollarPrefixedFieldName: "DollarPrefixedFieldName", InvalidIDField: "InvalidIdField",
	NotSingleValueField: "NotSingleValueField", InvalidDBRef: "InvalidDBRef",
	EmptyFieldName: "EmptyFieldName", DottedFieldName: "DottedFieldName",
	RoleModificationFailed: "RoleModificationFailed", CommandNotFound: "CommandNotFound",
	DatabaseNotFound: "DatabaseNotFound", ShardKeyNotFound: "ShardKeyNotFound",
	OplogOperationUnsupported: "OplogOperationUnsupported", StaleShardVersion: "StaleShardVersion",
	WriteConcernFailed: "WriteConcernFailed", MultipleErrorsOccurred: "MultipleErrorsOccurred",
	ImmutableField: "ImmutableField", CannotCreateIndex: "CannotCreateIndex",
	IndexAlreadyExists: "IndexAlreadyExists", AuthSchemaIncompatible: "AuthSchemaIncompatible",
	ShardNotFound: "ShardNotFound", ReplicaSetNotFound: "ReplicaSetNotFound",
	InvalidOptions: "InvalidOptions", InvalidNamespace: "InvalidNamespace",
	NodeNotFound: "NodeNotFound", WriteConcernLegacyOK: "WriteConcernLegacyOK",
	NoReplicationEnabled: "NoReplicationEnabled", OperationIncomplete: "OperationIncomplete",
	CommandResultSchemaViolation: "CommandResultSchemaViolation", UnknownReplWriteConcern: "UnknownReplWriteConcern",
	RoleDataInconsistent: "RoleDataInconsistent", NoWhereParseContext: "NoWhereParseContext",
	NoProgressMade: "NoProgressMade", RemoteResultsUnavailable: "RemoteResultsUnavailable",
	DuplicateKeyValue: "DuplicateKeyValue", IndexOptionsConflict: "IndexOptionsConflict",
	IndexKeySpecsConflict: "IndexKeySpecsConflict", CannotSplit: "CannotSplit",
	SplitFailed: "SplitFailed", NetworkTimeout: "NetworkTimeout",
	CallbackCanceled: "CallbackCanceled", ShutdownInProgress: "ShutdownInProgress",
	SecondaryAheadOfPrimary: "SecondaryAheadOfPrimary", InvalidReplicaSetConfig: "InvalidReplicaSetConfig",
	NotYetInitialized: "NotYetInitialized", NotSecondary: "NotSecondary",
	OperationFailed: "OperationFailed", NoProjectionFound: "NoProjectionFound",
	DBPathInUse: "DBPathInUse", WriteConcernNotDefined: "WriteConcernNotDefined",
	CannotSatisfyWriteConcern: "CannotSatisfyWriteConcern", OutdatedClient: "OutdatedClient",
	IncompatibleAuditMetadata: "IncompatibleAuditMetadata", NewReplicaSetConfigIncompatible: "NewReplicaSetConfigurationIncompatible",
	NodeNotElectable: "NodeNotElectable", IncompatibleShardingMetadata: "IncompatibleShardingMetadata",
	DistributedClockSkewed: "DistributedClockSkewed", LockFailed: "LockFailed",
	InconsistentReplicaSetNames: "InconsistentReplicaSetNames", ConfigurationInProgress: "ConfigurationInProgress",
	CannotInitializeNodeWithData: "CannotInitializeNodeWithData", NotExactValueField: "NotExactValueField",
	WriteConflict: "WriteConflict", InitialSyncFailure: "InitialSyncFailure",
	InitialSyncOplogSourceMissing: "InitialSyncOplogSourceMissing", CommandNotSupported: "CommandNotSupported",
	DocTooLargeForCapped: "DocTooLargeForCapped", ConflictingOperationInProgress: "ConflictingOperationInProgress",
	NamespaceNotSharded: "NamespaceNotSharded", InvalidSyncSource: "InvalidSyncSource",
	OplogStartMissing: "OplogStartMissing", DocumentValidationFailure: "DocumentValidationFailure",
	ObsoleteReadAfterOptimeTimeout: "OBSOLETE_ReadAfterOptimeTimeout", NotAReplicaSet: "NotAReplicaSet",
	IncompatibleElectionProtocol: "IncompatibleElectionProtocol", CommandFailed: "CommandFailed",
	RPCProtocolNegotiationFailed: "RPCProtocolNegotiationFailed", UnrecoverableRollbackError: "UnrecoverableRollbackError",
	LockNotFound: "LockNotFound", LockStateChangeFailed: "LockStateChangeFailed",
	SymbolNotFound: "SymbolNotFound", RLPInitializationFailed: "RLPInitializationFailed",
	ConfigServersInconsistent: "ConfigServersInconsistent", FailedToSatisfyReadPreference: "FailedToSatisfyReadPreference",
	ReadConcernMajorityNotAvailableYet: "ReadConcernMajorityNotAvailableYet", StaleTerm: "StaleTerm",
	CappedPositionLost: "CappedPositionLost", IncompatibleShardingConfigVersion: "IncompatibleShardingConfigVersion",
	RemoteOplogStale: "RemoteOplogStale", JSInterpreterFailure: "JSInterpreterFailure",
	NotMaster: "NotMaster", DuplicateKey: "DuplicateKey",
	InterruptedAtShutdown: "InterruptedAtShutdown", Interrupted: "Interrupted",
	BackgroundOperationInProgressForDatabase: "BackgroundOperationInProgressForDatabase",
	BackgroundOperationInProgressForNamespace: "BackgroundOperationInProgressForNamespace",
	PrepareConfigsFailed: "PrepareConfigsFailed", DatabaseDifferCase: "DatabaseDifferCase",
	ShardKeyTooBig: "ShardKeyTooBig", SendStaleConfig: "SendStaleConfig",
	NotMasterNoSlaveOk: "NotMasterNoSlaveOk", NotMasterOrSecondary: "NotMasterOrSecondary",
	OutOfDiskSpace: "OutOfDiskSpace", KeyTooLong: "KeyTooLong",
}

// String implements fmt.Stringer, falling back to "ErrorCode(<n>)" for
// any value the server returns that this table doesn't (yet) name.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int32(c))
}

// SocketException is carried separately from the Rust original's table
// (absent there) because the legacy wire protocol's own network layer
// reports it; see codeIsNetworkError.
const SocketException ErrorCode = 9001

// codeIsNetworkError reports whether code indicates a transport-level
// failure rather than a server-logic failure.
func codeIsNetworkError(c ErrorCode) bool {
	switch c {
	case HostUnreachable, HostNotFound, NetworkTimeout, SocketException:
		return true
	default:
		return false
	}
}

// codeIsInterruption reports whether code indicates the operation was
// interrupted rather than having failed outright.
func codeIsInterruption(c ErrorCode) bool {
	switch c {
	case Interrupted, InterruptedAtShutdown, ExceededTimeLimit, CallbackCanceled:
		return true
	default:
		return false
	}
}

// codeIsIndexCreationError reports whether code indicates a failed
// createIndexes call specifically, as opposed to a general command failure.
func codeIsIndexCreationError(c ErrorCode) bool {
	switch c {
	case CannotCreateIndex, IndexOptionsConflict, IndexKeySpecsConflict, IndexAlreadyExists:
		return true
	default:
		return false
	}
}

// codeIsNotMaster reports whether code names a server that no longer
// believes itself to be the primary (or, for a former secondary, no longer
// believes it can serve the request the client routed to it expecting a
// primary). A reply carrying one of these codes means the server's
// description is stale and must be invalidated.
func codeIsNotMaster(c ErrorCode) bool {
	switch c {
	case NotMaster, NotMasterNoSlaveOk, NotMasterOrSecondary:
		return true
	default:
		return false
	}
}
