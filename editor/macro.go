package editor

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// RunMacro executes an editing script against the session. Scripts see
// the grid size plus paint, erase and fill primitives; everything a
// macro does lands as one stroke, so one undo reverts the whole run.
//
//	for y := 0; y < height(); y++ {
//		paint(0, y)
//		paint(width()-1, y)
//	}
func (s *Session) RunMacro(src []byte) error {
	l := s.activeLayer()
	if l == nil {
		return fmt.Errorf("editor: macro needs an active layer")
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	bind := func(name string, fn tengo.CallableFunc) {
		_ = script.Add(name, &tengo.UserFunction{Name: name, Value: fn})
	}
	bind("width", func(args ...tengo.Object) (tengo.Object, error) {
		w, _ := s.Map().Layer(s.active).Size()
		return &tengo.Int{Value: int64(w)}, nil
	})
	bind("height", func(args ...tengo.Object) (tengo.Object, error) {
		_, h := s.Map().Layer(s.active).Size()
		return &tengo.Int{Value: int64(h)}, nil
	})
	bind("paint", func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := cellArgs("paint", args)
		if err != nil {
			return nil, err
		}
		s.Paint(x, y)
		return tengo.UndefinedValue, nil
	})
	bind("erase", func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := cellArgs("erase", args)
		if err != nil {
			return nil, err
		}
		s.Erase(x, y)
		return tengo.UndefinedValue, nil
	})
	bind("fill", func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := cellArgs("fill", args)
		if err != nil {
			return nil, err
		}
		s.Fill(x, y)
		return tengo.UndefinedValue, nil
	})

	s.StartStroke()
	if _, err := script.Run(); err != nil {
		s.CancelStroke()
		return fmt.Errorf("editor: macro: %w", err)
	}
	s.EndStroke()
	return nil
}

func cellArgs(name string, args []tengo.Object) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s wants (x, y), got %d args", name, len(args))
	}
	x, ok := tengo.ToInt(args[0])
	if !ok {
		return 0, 0, fmt.Errorf("%s: x is not an int", name)
	}
	y, ok := tengo.ToInt(args[1])
	if !ok {
		return 0, 0, fmt.Errorf("%s: y is not an int", name)
	}
	return x, y, nil
}
