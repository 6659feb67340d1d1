package errs

import (
	"errors"
	"fmt"
)

type CodeError interface {
	error
	Code() int32
	Printf(format string, args ...any) CodeError
	Is(error) bool
}

func CreateCodeError(code int32, desc string) CodeError {
	return &codeError{
		Errno: code,
		Desc:  desc,
	}
}

// WrapError 非CodeError包装成Unknown, 保留原错误描述
func WrapError(err error) CodeError {
	if err == nil {
		return nil
	}
	var x *codeError
	if errors.As(err, &x) {
		return x
	}
	return CreateCodeError(ErrCode_Unknown, err.Error())
}

// CodeOf 返回err的错误码, nil返回ErrCode_OK
func CodeOf(err error) int32 {
	if err == nil {
		return ErrCode_OK
	}
	var x *codeError
	if errors.As(err, &x) {
		return x.Errno
	}
	return ErrCode_Unknown
}

type codeError struct {
	Errno int32
	Desc  string
}

func (e *codeError) Code() int32 {
	return e.Errno
}

func (e *codeError) Error() string {
	return e.Desc
}

func (e *codeError) String() string {
	return fmt.Sprintf("errno: %d, desc: %s", e.Errno, e.Desc)
}

func (e *codeError) Printf(format string, args ...any) CodeError {
	if len(format) == 0 {
		return e
	}
	return &codeError{
		Errno: e.Errno,
		Desc:  fmt.Sprintf(e.Desc+","+format, args...),
	}
}

func (e *codeError) Is(target error) bool {
	if x, ok := target.(*codeError); ok {
		return x.Errno == e.Errno
	}
	return false
}
