package logging

import (
	"context"
)

type contextKey string

const (
	InvocationIDKey contextKey = "invocation_id"
	RequestIDKey    contextKey = "request_id"
	RecordIDKey     contextKey = "record_id"
	ServiceNameKey  contextKey = "service_name"
)

func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	return context.WithValue(ctx, InvocationIDKey, invocationID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithRecordID(ctx context.Context, recordID string) context.Context {
	return context.WithValue(ctx, RecordIDKey, recordID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func GetInvocationID(ctx context.Context) string {
	return getString(ctx, InvocationIDKey)
}

func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

func GetRecordID(ctx context.Context) string {
	return getString(ctx, RecordIDKey)
}

func GetServiceName(ctx context.Context) string {
	return getString(ctx, ServiceNameKey)
}

func getString(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)

	if invocationID := GetInvocationID(ctx); invocationID != "" {
		fields = append(fields, string(InvocationIDKey), invocationID)
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}

	if recordID := GetRecordID(ctx); recordID != "" {
		fields = append(fields, string(RecordIDKey), recordID)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, string(ServiceNameKey), serviceName)
	}

	return fields
}
