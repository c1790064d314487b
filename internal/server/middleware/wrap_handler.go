package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/labstack/echo/v4"
)

var (
	ctxInterface   = reflect.TypeOf((*echo.Context)(nil)).Elem()
	errorInterface = reflect.TypeOf((*error)(nil)).Elem()
)

// WrapHandler turns func(echo.Context, Req) (Res, error) into an echo
// handler. Req is bound and validated before the call; Res is rendered as a
// successful Response. A handler returning only an error answers 204.
func WrapHandler(f interface{}) echo.HandlerFunc {
	handler, err := wrapHandler(f)
	if err != nil {
		panic(err)
	}

	return handler
}

func checkHandlerType(fVal reflect.Value) error {
	if fVal.Kind() != reflect.Func {
		return fmt.Errorf("invalid function passed to wrap handler: %v", fVal)
	}
	fTyp := fVal.Type()
	fName := runtime.FuncForPC(fVal.Pointer()).Name()

	if numIn := fTyp.NumIn(); numIn != 2 {
		return fmt.Errorf("[%s] invalid function arguments length: %d", fName, numIn)
	}
	if !fTyp.In(0).Implements(ctxInterface) {
		return fmt.Errorf("[%s] first argument must has type echo.Context", fName)
	}
	if kind := fTyp.In(1).Kind(); kind != reflect.Struct {
		return fmt.Errorf("[%s] second argument must has type struct: %v", fName, kind)
	}

	numOut := fTyp.NumOut()
	if numOut < 1 || numOut > 2 {
		return fmt.Errorf("[%s] invalid function returns length: %d", fName, numOut)
	}
	if last := fTyp.Out(numOut - 1); !last.Implements(errorInterface) {
		return fmt.Errorf("[%s] last return argument must has type error: %v", fName, last)
	}
	return nil
}

func wrapHandler(f interface{}) (echo.HandlerFunc, error) {
	fVal := reflect.ValueOf(f)
	if err := checkHandlerType(fVal); err != nil {
		return nil, err
	}

	fTyp := fVal.Type()
	reqType := fTyp.In(1)
	numOut := fTyp.NumOut()
	errorIndex := numOut - 1

	handler := func(c echo.Context) error {
		req := reflect.New(reqType)
		if err := BindAndValidate(c, req.Interface()); err != nil {
			return err
		}

		res := fVal.Call([]reflect.Value{reflect.ValueOf(c), req.Elem()})
		if errVal := res[errorIndex]; !errVal.IsNil() {
			return errVal.Interface().(error)
		}

		if c.Response().Committed {
			return nil
		}

		if numOut == 1 {
			return c.NoContent(http.StatusNoContent)
		}

		data := res[0].Interface()
		resp := &Response{
			Status:  http.StatusOK,
			Success: true,
			Data:    data,
		}
		if v, ok := data.(*Response); ok {
			resp = v
		}
		return c.JSON(resp.Status, resp)
	}

	return handler, nil
}
