package xlog

import (
	"os"

	"go.uber.org/zap/zapcore"
)

var encoderMap = map[LogEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

// Replaced by tests to capture the output in memory.
var testMemWriter zapcore.WriteSyncer = zapcore.AddSync(os.Stdout)

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

// getOutWriterByType returns the writer and its release function.
func getOutWriterByType(typ LogOutWriterType, filePath string) (zapcore.WriteSyncer, func() error, error) {
	switch typ {
	case StdErr:
		return zapcore.Lock(os.Stderr), nil, nil
	case File:
		fl, err := newFileLog(filePath)
		if err != nil {
			return nil, nil, err
		}
		return zapcore.AddSync(fl), fl.Close, nil
	case testMemAsOut:
		return testMemWriter, nil, nil
	case StdOut:
		fallthrough
	default:
	}
	return zapcore.Lock(os.Stdout), nil, nil
}

func consoleEncoderConfig(lvlEnc zapcore.LevelEncoder, tsEnc zapcore.TimeEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
}

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) zapcore.Core {
	return zapcore.NewCore(
		getEncoderByType(encoder)(consoleEncoderConfig(lvlEnc, tsEnc)),
		ws,
		lvlEnabler,
	)
}
