package embedder

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// The ONNX Runtime environment is process-wide and initialized once.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// runtimeLibrary is the platform file name of the ONNX Runtime library.
func runtimeLibrary() string {
	switch runtime.GOOS {
	case "darwin":
		return "libonnxruntime.dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "libonnxruntime.so"
	}
}

type onnxSession struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	embedDim   int64
}

func newONNXSession(modelPath, libPath string, threads int) (*onnxSession, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), runtimeLibrary())
	}
	if threads <= 0 {
		threads = 4
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime from %s: %w", libPath, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: read model info: %w", err)
	}
	inputNames, err := modelInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	dims := outputs[0].Dimensions
	if len(dims) != 3 || dims[2] <= 0 {
		return nil, fmt.Errorf("onnx: expected [batch, seq, dim] output, got %v", dims)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(threads)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}
	return &onnxSession{session: session, inputNames: inputNames, embedDim: dims[2]}, nil
}

// modelInputs returns the input names to feed, in order. input_ids and
// attention_mask are required; token_type_ids is fed only when the model
// declares it (DistilBERT-style exports do not).
func modelInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	declared := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		declared[inp.Name] = true
	}
	names := []string{"input_ids", "attention_mask"}
	for _, name := range names {
		if !declared[name] {
			return nil, fmt.Errorf("onnx: model missing required input %q", name)
		}
	}
	if declared["token_type_ids"] {
		names = append(names, "token_type_ids")
	}
	return names, nil
}

// infer runs one batch and returns the flat [batch * seq * dim] hidden states.
func (s *onnxSession) infer(batch tokenized) ([]float32, error) {
	shape := ort.NewShape(batch.batchSize, batch.seqLen)

	feeds := map[string][]int64{
		"input_ids":      batch.inputIDs,
		"attention_mask": batch.attentionMask,
		"token_type_ids": make([]int64, len(batch.inputIDs)),
	}
	in := make([]ort.Value, 0, len(s.inputNames))
	defer func() {
		for _, v := range in {
			v.Destroy()
		}
	}()
	for _, name := range s.inputNames {
		t, err := ort.NewTensor(shape, feeds[name])
		if err != nil {
			return nil, fmt.Errorf("onnx: %s tensor: %w", name, err)
		}
		in = append(in, t)
	}

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(batch.batchSize, batch.seqLen, s.embedDim))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := s.session.Run(in, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: inference: %w", err)
	}

	src := out.GetData()
	hidden := make([]float32, len(src))
	copy(hidden, src)
	return hidden, nil
}

func (s *onnxSession) close() error {
	return s.session.Destroy()
}
