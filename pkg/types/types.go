// Package types defines the byte-level vocabulary of the PostgreSQL wire
// protocol version 3.0: message type tags, the startup version numbers, and
// the small enumerations (format codes, describe kinds) shared by both the
// inbound and outbound sides of a connection.
package types

// ClientMessage represents a message type tag sent by a client (frontend).
type ClientMessage byte

// ServerMessage represents a message type tag sent by a server (backend).
type ServerMessage byte

// DescribeMessage represents the subtype of a Describe/Close message.
type DescribeMessage byte

// http://www.postgresql.org/docs/current/static/protocol-message-formats.html
const (
	ClientBind        ClientMessage = 'B'
	ClientClose       ClientMessage = 'C'
	ClientCopyData    ClientMessage = 'd'
	ClientCopyDone    ClientMessage = 'c'
	ClientCopyFail    ClientMessage = 'f'
	ClientDescribe    ClientMessage = 'D'
	ClientExecute     ClientMessage = 'E'
	ClientFlush       ClientMessage = 'H'
	ClientParse       ClientMessage = 'P'
	ClientPassword    ClientMessage = 'p'
	ClientSimpleQuery ClientMessage = 'Q'
	ClientSync        ClientMessage = 'S'
	ClientTerminate   ClientMessage = 'X'

	ServerAuth                 ServerMessage = 'R'
	ServerBackendKeyData       ServerMessage = 'K'
	ServerBindComplete         ServerMessage = '2'
	ServerCommandComplete      ServerMessage = 'C'
	ServerCloseComplete        ServerMessage = '3'
	ServerCopyOutResponse      ServerMessage = 'H'
	ServerDataRow              ServerMessage = 'D'
	ServerEmptyQuery           ServerMessage = 'I'
	ServerErrorResponse        ServerMessage = 'E'
	ServerNoticeResponse       ServerMessage = 'N'
	ServerNoData               ServerMessage = 'n'
	ServerNotificationResponse ServerMessage = 'A'
	ServerParameterDescription ServerMessage = 't'
	ServerParameterStatus      ServerMessage = 'S'
	ServerParseComplete        ServerMessage = '1'
	ServerPortalSuspended      ServerMessage = 's'
	ServerReady                ServerMessage = 'Z'
	ServerRowDescription       ServerMessage = 'T'

	DescribePortal    DescribeMessage = 'P'
	DescribeStatement DescribeMessage = 'S'
)

// ServerStatus represents the transaction status byte carried by ReadyForQuery.
type ServerStatus byte

const (
	ServerIdle              ServerStatus = 'I'
	ServerTransactionBlock  ServerStatus = 'T'
	ServerTransactionFailed ServerStatus = 'E'
)

// FormatCode represents the wire encoding format of a parameter or column.
type FormatCode int16

const (
	// TextFormat is the default, text format. The core never requests it.
	TextFormat FormatCode = 0
	// BinaryFormat is the only format this core negotiates for parameters
	// and results.
	BinaryFormat FormatCode = 1
)

// AuthType represents an authentication sub-type carried by an
// AuthenticationRequest message.
type AuthType int32

const (
	AuthOK           AuthType = 0
	AuthKerberosV5   AuthType = 2
	AuthCleartext    AuthType = 3
	AuthMD5          AuthType = 5
	AuthSCMCredential AuthType = 6
	AuthGSS          AuthType = 7
	AuthGSSContinue  AuthType = 8
	AuthSSPI         AuthType = 9
	AuthSASL         AuthType = 10
	AuthSASLContinue AuthType = 11
	AuthSASLFinal    AuthType = 12
)

func (m ClientMessage) String() string {
	switch m {
	case ClientBind:
		return "Bind"
	case ClientClose:
		return "Close"
	case ClientCopyData:
		return "CopyData"
	case ClientCopyDone:
		return "CopyDone"
	case ClientCopyFail:
		return "CopyFail"
	case ClientDescribe:
		return "Describe"
	case ClientExecute:
		return "Execute"
	case ClientFlush:
		return "Flush"
	case ClientParse:
		return "Parse"
	case ClientPassword:
		return "Password"
	case ClientSimpleQuery:
		return "SimpleQuery"
	case ClientSync:
		return "Sync"
	case ClientTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

func (m ServerMessage) String() string {
	switch m {
	case ServerAuth:
		return "Auth"
	case ServerBackendKeyData:
		return "BackendKeyData"
	case ServerBindComplete:
		return "BindComplete"
	case ServerCommandComplete:
		return "CommandComplete"
	case ServerCloseComplete:
		return "CloseComplete"
	case ServerCopyOutResponse:
		return "CopyOutResponse"
	case ServerDataRow:
		return "DataRow"
	case ServerEmptyQuery:
		return "EmptyQuery"
	case ServerErrorResponse:
		return "ErrorResponse"
	case ServerNoticeResponse:
		return "NoticeResponse"
	case ServerNoData:
		return "NoData"
	case ServerNotificationResponse:
		return "NotificationResponse"
	case ServerParameterDescription:
		return "ParameterDescription"
	case ServerParameterStatus:
		return "ParameterStatus"
	case ServerParseComplete:
		return "ParseComplete"
	case ServerPortalSuspended:
		return "PortalSuspended"
	case ServerReady:
		return "Ready"
	case ServerRowDescription:
		return "RowDescription"
	default:
		return "Unknown"
	}
}

func (m DescribeMessage) String() string {
	switch m {
	case DescribePortal:
		return "Portal"
	case DescribeStatement:
		return "Statement"
	default:
		return "Unknown"
	}
}
