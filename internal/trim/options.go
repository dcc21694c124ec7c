package trim

import (
	"fmt"
	"reflect"
)

// Options is the subset of ffmpeg flags the trim invoker composes. It
// satisfies the transcoder libraries Options interface so it can be
// handed straight to the ffmpeg transcoder; each non-nil field is
// rendered using its 'flag' tag. ExtraArgs carries any flag the struct
// doesn't name explicitly.
type Options struct {
	SeekStart    *string `flag:"-ss"`
	SeekEnd      *string `flag:"-to"`
	VideoCodec   *string `flag:"-c:v"`
	AudioCodec   *string `flag:"-c:a"`
	AudioBitrate *string `flag:"-b:a"`
	Overwrite    *bool   `flag:"-y"`
	ExtraArgs    map[string]interface{}
}

func (opts Options) GetStrArguments() []string {
	t := reflect.TypeOf(opts)
	v := reflect.ValueOf(opts)

	values := []string{}
	for i := 0; i < t.NumField(); i++ {
		flag := t.Field(i).Tag.Get("flag")
		if flag == "" {
			continue
		}

		field := v.Field(i)
		if field.IsNil() {
			continue
		}

		switch value := field.Interface().(type) {
		case *string:
			values = append(values, flag, *value)
		case *bool:
			if *value {
				values = append(values, flag)
			}
		}
	}

	for key, value := range opts.ExtraArgs {
		values = append(values, key, fmt.Sprintf("%v", value))
	}

	return values
}
