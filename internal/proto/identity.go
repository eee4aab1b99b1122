// Package proto defines the skillsync.identity.v1.Identity gRPC contract.
//
// Messages travel as google.protobuf.Struct values on the wire; the typed
// request and response structs below are converted at the stub boundary so
// neither side touches raw Struct fields.
package proto

import (
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "skillsync.identity.v1.Identity"

const (
	Identity_CreateAccount_FullMethodName        = "/" + ServiceName + "/CreateAccount"
	Identity_SignIn_FullMethodName               = "/" + ServiceName + "/SignIn"
	Identity_SendPasswordReset_FullMethodName    = "/" + ServiceName + "/SendPasswordReset"
	Identity_ConfirmPasswordReset_FullMethodName = "/" + ServiceName + "/ConfirmPasswordReset"
	Identity_UpdateEmail_FullMethodName          = "/" + ServiceName + "/UpdateEmail"
	Identity_GetAccount_FullMethodName           = "/" + ServiceName + "/GetAccount"
)

// CredentialsRequest is the payload of CreateAccount and SignIn.
type CredentialsRequest struct {
	Email    string
	Password string
}

// EmailRequest is the payload of SendPasswordReset and UpdateEmail.
type EmailRequest struct {
	Email string
}

type ConfirmPasswordResetRequest struct {
	Token    string
	Password string
}

// AccountResponse describes the signed-in account. IdToken is empty for
// GetAccount.
type AccountResponse struct {
	Uid     string
	Email   string
	IdToken string
}

type Empty struct{}

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func newStruct(kv ...string) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Fields[kv[i]] = structpb.NewStringValue(kv[i+1])
	}
	return s
}

func (r *CredentialsRequest) ToStruct() *structpb.Struct {
	if r == nil {
		return newStruct()
	}
	return newStruct("email", r.Email, "password", r.Password)
}

func CredentialsRequestFromStruct(s *structpb.Struct) *CredentialsRequest {
	return &CredentialsRequest{Email: str(s, "email"), Password: str(s, "password")}
}

func (r *EmailRequest) ToStruct() *structpb.Struct {
	if r == nil {
		return newStruct()
	}
	return newStruct("email", r.Email)
}

func EmailRequestFromStruct(s *structpb.Struct) *EmailRequest {
	return &EmailRequest{Email: str(s, "email")}
}

func (r *ConfirmPasswordResetRequest) ToStruct() *structpb.Struct {
	if r == nil {
		return newStruct()
	}
	return newStruct("token", r.Token, "password", r.Password)
}

func ConfirmPasswordResetRequestFromStruct(s *structpb.Struct) *ConfirmPasswordResetRequest {
	return &ConfirmPasswordResetRequest{Token: str(s, "token"), Password: str(s, "password")}
}

func (r *AccountResponse) ToStruct() *structpb.Struct {
	if r == nil {
		return newStruct()
	}
	if r.IdToken == "" {
		return newStruct("uid", r.Uid, "email", r.Email)
	}
	return newStruct("uid", r.Uid, "email", r.Email, "id_token", r.IdToken)
}

func AccountResponseFromStruct(s *structpb.Struct) *AccountResponse {
	return &AccountResponse{Uid: str(s, "uid"), Email: str(s, "email"), IdToken: str(s, "id_token")}
}

func (*Empty) ToStruct() *structpb.Struct { return newStruct() }

func EmptyFromStruct(*structpb.Struct) *Empty { return &Empty{} }
